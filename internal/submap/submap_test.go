package submap

import (
	"testing"

	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/keycode"
)

func testConfig() *config.Config {
	return &config.Config{Submaps: map[string]*config.Submap{
		"main":     {Name: "main", Binds: map[string]*config.BindArgs{}, Modifiers: map[keycode.Code]bool{}},
		"launcher": {Name: "launcher", Binds: map[string]*config.BindArgs{}, Modifiers: map[keycode.Code]bool{}},
	}}
}

func TestNewStartsAtMain(t *testing.T) {
	s := New(testConfig())
	if s.CurrentName() != MainName {
		t.Errorf("expected initial submap %q, got %q", MainName, s.CurrentName())
	}
}

func TestEnterSubmapKnownTarget(t *testing.T) {
	s := New(testConfig())
	if !s.EnterSubmap("launcher") {
		t.Fatal("expected transition to succeed")
	}
	if s.CurrentName() != "launcher" {
		t.Errorf("expected current submap launcher, got %q", s.CurrentName())
	}
}

func TestEnterSubmapUnknownTargetLeavesUnchanged(t *testing.T) {
	s := New(testConfig())
	if s.EnterSubmap("ghost") {
		t.Fatal("expected transition to an unknown submap to fail")
	}
	if s.CurrentName() != MainName {
		t.Errorf("expected submap to remain %q, got %q", MainName, s.CurrentName())
	}
}

func TestExitSubmapReturnsToMain(t *testing.T) {
	s := New(testConfig())
	s.EnterSubmap("launcher")
	s.ExitSubmap()
	if s.CurrentName() != MainName {
		t.Errorf("expected %q after ExitSubmap, got %q", MainName, s.CurrentName())
	}
}
