package engine

import (
	"testing"

	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/keycode"
	"github.com/mudras/mudras/internal/keystate"
	"github.com/mudras/mudras/internal/submap"
)

func newMainConfig(t *testing.T, binds ...config.BindArgs) *config.Config {
	t.Helper()
	sm := &config.Submap{
		Name:      "main",
		Binds:     make(map[string]*config.BindArgs),
		Modifiers: make(map[keycode.Code]bool),
	}
	for _, b := range binds {
		bcopy := b
		sm.Binds[bcopy.Sequence.Key()] = &bcopy
		if len(bcopy.Sequence) > 0 {
			sm.Modifiers[bcopy.Sequence[0].Code] = true
		}
	}
	return &config.Config{Submaps: map[string]*config.Submap{"main": sm}}
}

func TestPlainTypingForwardsWhenNoModifierHeld(t *testing.T) {
	cfg := newMainConfig(t, config.BindArgs{
		Sequence: keycode.ParseChord("super+t", keycode.Press),
		Swallow:  true, Exact: true,
	})
	sm := submap.New(cfg)
	ks := keystate.New()

	a := keycode.Lookup("a")
	ks.Apply(a, keycode.Pressed)
	d := evaluate(sm, ks, a, keycode.Pressed, false)
	if !d.forward || d.fire != nil {
		t.Errorf("plain key press should forward and not fire, got %#v", d)
	}
}

func TestChordFiresOnCompletingPress(t *testing.T) {
	cfg := newMainConfig(t, config.BindArgs{
		Sequence: keycode.ParseChord("super+t", keycode.Press),
		Swallow:  true, Exact: true,
	})
	sm := submap.New(cfg)
	ks := keystate.New()

	super := keycode.Lookup("super")
	tKey := keycode.Lookup("t")

	ks.Apply(super, keycode.Pressed)
	d := evaluate(sm, ks, super, keycode.Pressed, false)
	if d.forward {
		t.Errorf("super alone (a modifier, no bind match yet) should be swallowed by the modifier gate, got %#v", d)
	}

	ks.Apply(tKey, keycode.Pressed)
	d = evaluate(sm, ks, tKey, keycode.Pressed, false)
	if d.forward {
		t.Errorf("completing press of a swallow bind must not forward, got %#v", d)
	}
	if d.fire == nil {
		t.Fatal("expected the bind to fire on the completing press")
	}
}

func TestModifierGateSwallowsNonMatchingChordMembers(t *testing.T) {
	cfg := newMainConfig(t, config.BindArgs{
		Sequence: keycode.ParseChord("super+t", keycode.Press),
		Swallow:  true, Exact: true,
	})
	sm := submap.New(cfg)
	ks := keystate.New()

	super := keycode.Lookup("super")
	k := keycode.Lookup("k")

	ks.Apply(super, keycode.Pressed)
	evaluate(sm, ks, super, keycode.Pressed, false)

	ks.Apply(k, keycode.Pressed)
	d := evaluate(sm, ks, k, keycode.Pressed, false)
	if d.forward {
		t.Errorf("a key pressed while a modifier is held with no matching bind should be swallowed silently, got %#v", d)
	}
	if d.fire != nil {
		t.Errorf("non-matching chord should never fire, got %#v", d)
	}
}

func TestRepeatSuppressedWhenBindDoesNotAllowRepeat(t *testing.T) {
	cfg := newMainConfig(t, config.BindArgs{
		Sequence: keycode.ParseChord("super+t", keycode.Press),
		Swallow:  true, Exact: true, Repeat: false,
	})
	sm := submap.New(cfg)
	ks := keystate.New()

	super := keycode.Lookup("super")
	tKey := keycode.Lookup("t")
	ks.Apply(super, keycode.Pressed)
	evaluate(sm, ks, super, keycode.Pressed, false)
	ks.Apply(tKey, keycode.Pressed)
	evaluate(sm, ks, tKey, keycode.Pressed, false)

	// Repeat event: state unchanged, isRepeat true.
	d := evaluate(sm, ks, tKey, keycode.Pressed, true)
	if d.forward {
		t.Errorf("repeat should be suppressed, not forwarded, got %#v", d)
	}
	if d.fire != nil {
		t.Errorf("repeat should not fire when bind.Repeat is false, got %#v", d)
	}
}

func TestSubmapEnterAndExit(t *testing.T) {
	launcher := &config.Submap{
		Name:      "launcher",
		Binds:     make(map[string]*config.BindArgs),
		Modifiers: make(map[keycode.Code]bool),
	}
	fBind := config.BindArgs{
		Sequence: keycode.ParseChord("f", keycode.Press),
		Swallow:  true, Exact: true,
		Commands: []config.Command{{Kind: config.CommandShell, Shell: "firefox"}},
	}
	launcher.Binds[fBind.Sequence.Key()] = &fBind
	launcher.Modifiers[fBind.Sequence[0].Code] = true

	escBind := config.BindArgs{
		Sequence: keycode.ParseChord("escape", keycode.Press),
		Swallow:  true, Exact: true,
		Commands: []config.Command{{Kind: config.CommandExitSubmap}},
	}
	launcher.Binds[escBind.Sequence.Key()] = &escBind
	launcher.Modifiers[escBind.Sequence[0].Code] = true

	enterBind := config.BindArgs{
		Sequence: keycode.ParseChord("super+space", keycode.Press),
		Swallow:  true, Exact: true,
		Commands: []config.Command{{Kind: config.CommandEnterSubmap, SubmapName: "launcher"}},
	}
	main := &config.Submap{
		Name:      "main",
		Binds:     map[string]*config.BindArgs{enterBind.Sequence.Key(): &enterBind},
		Modifiers: map[keycode.Code]bool{enterBind.Sequence[0].Code: true},
	}

	cfg := &config.Config{Submaps: map[string]*config.Submap{"main": main, "launcher": launcher}}
	sm := submap.New(cfg)

	if sm.CurrentName() != "main" {
		t.Fatalf("expected initial submap main, got %s", sm.CurrentName())
	}
	dispatch(sm, &enterBind, nil)
	if sm.CurrentName() != "launcher" {
		t.Fatalf("expected transition to launcher, got %s", sm.CurrentName())
	}
	dispatch(sm, &escBind, nil)
	if sm.CurrentName() != "main" {
		t.Fatalf("expected transition back to main, got %s", sm.CurrentName())
	}
}
