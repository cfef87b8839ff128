package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mudras/mudras/internal/keycode"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.kdl")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadSimpleBind(t *testing.T) {
	path := writeTemp(t, `
super+t {
    @press {
        - "alacritty"
    }
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	main := cfg.Submaps["main"]
	if main == nil {
		t.Fatal("expected main submap")
	}
	seq := keycode.ParseChord("super+t", keycode.Press)
	bind := main.Lookup(seq)
	if bind == nil {
		t.Fatal("expected a bind for super+t")
	}
	if !bind.Swallow {
		t.Error("expected default swallow=true")
	}
	if len(bind.Commands) != 1 || bind.Commands[0].Shell != "alacritty" {
		t.Errorf("unexpected commands: %#v", bind.Commands)
	}
}

func TestLoadSwallowOverride(t *testing.T) {
	path := writeTemp(t, `
super+k swallow=false {
    @press {
        - "true"
    }
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bind := cfg.Submaps["main"].Lookup(keycode.ParseChord("super+k", keycode.Press))
	if bind == nil {
		t.Fatal("expected a bind")
	}
	if bind.Swallow {
		t.Error("expected swallow=false to be honored")
	}
}

func TestLoadSubmapEnterExit(t *testing.T) {
	path := writeTemp(t, `
super+space {
    @press {
        @enter "launcher"
    }
}

@submap name="launcher" {
    f {
        @press {
            - "firefox"
        }
    }
    escape {
        @press {
            @exit
        }
    }
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cfg.Submaps["launcher"]; !ok {
		t.Fatal("expected launcher submap")
	}
	enter := cfg.Submaps["main"].Lookup(keycode.ParseChord("super+space", keycode.Press))
	if enter == nil || enter.Commands[0].Kind != CommandEnterSubmap || enter.Commands[0].SubmapName != "launcher" {
		t.Fatalf("unexpected enter bind: %#v", enter)
	}
	exit := cfg.Submaps["launcher"].Lookup(keycode.ParseChord("escape", keycode.Press))
	if exit == nil || exit.Commands[0].Kind != CommandExitSubmap {
		t.Fatalf("unexpected exit bind: %#v", exit)
	}
}

func TestLoadDuplicateSequenceRejected(t *testing.T) {
	path := writeTemp(t, `
super+t {
    @press {
        - "one"
    }
}
super+t {
    @release {
        - "two"
    }
}
`)
	// Two different nodes with the same name but different event kinds
	// (press vs release) produce distinct sequence keys and must both
	// succeed; only an actual duplicate sorted sequence is an error.
	if _, err := Load(path); err != nil {
		t.Fatalf("expected press/release pair to coexist, got: %v", err)
	}

	dup := writeTemp(t, `
super+t {
    @press {
        - "one"
    }
}
super+t {
    @press {
        - "two"
    }
}
`)
	if _, err := Load(dup); err == nil {
		t.Fatal("expected duplicate sequence to be rejected")
	}
}

func TestLoadUnknownEnterTargetRejected(t *testing.T) {
	path := writeTemp(t, `
super+t {
    @press {
        @enter "ghost"
    }
}
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown submap target to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.kdl")); err == nil {
		t.Fatal("expected missing file to error")
	}
}

func TestModifiersDerivedFromFirstKey(t *testing.T) {
	path := writeTemp(t, `
super+t {
    @press {
        - "one"
    }
}
super+k {
    @press {
        - "two"
    }
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	super := keycode.Lookup("super")
	if !cfg.Submaps["main"].Modifiers[super] {
		t.Error("expected super to be a derived modifier of main")
	}
}
