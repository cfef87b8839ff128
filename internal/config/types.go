// Package config holds the data model the engine consumes — submaps,
// key sequences, and bind actions — plus the loader that turns the
// on-disk KDL-style node tree into it (§3, §4.B).
package config

import (
	"fmt"

	"github.com/mudras/mudras/internal/keycode"
)

// CommandKind discriminates the two shapes a Command can take.
type CommandKind int

const (
	CommandShell CommandKind = iota
	CommandEnterSubmap
	CommandExitSubmap
)

// Command is one action in a bind's command list: either a detached
// shell invocation, or an internal submap transition.
type Command struct {
	Kind       CommandKind
	Shell      string // set when Kind == CommandShell
	SubmapName string // set when Kind == CommandEnterSubmap
}

// BindArgs is the payload attached to one KeySequence (§3).
type BindArgs struct {
	Sequence keycode.Sequence
	Commands []Command
	Swallow  bool // default true
	Repeat   bool // default false; only meaningful for a press chord
	Exact    bool // default true
}

// DefaultBindArgs returns the zero-value defaults spec'd in §3: swallow
// and exact true, repeat false, no commands.
func DefaultBindArgs(seq keycode.Sequence) BindArgs {
	return BindArgs{Sequence: seq, Swallow: true, Exact: true}
}

// Submap is one named set of chord bindings plus its derived modifier
// set (§3, §4.F).
type Submap struct {
	Name      string
	Binds     map[string]*BindArgs // keyed by keycode.Sequence.Key()
	Modifiers map[keycode.Code]bool
}

// newSubmap builds an empty Submap ready to receive binds via addBind.
func newSubmap(name string) *Submap {
	return &Submap{
		Name:      name,
		Binds:     make(map[string]*BindArgs),
		Modifiers: make(map[keycode.Code]bool),
	}
}

// addBind inserts args keyed by its sequence, returning an error if a
// bind with the same sorted sequence already exists in this submap (§3
// invariant: no two binds in one submap share the same KeySequence).
func (s *Submap) addBind(args BindArgs) error {
	key := args.Sequence.Key()
	if _, exists := s.Binds[key]; exists {
		return fmt.Errorf("config: submap %q: duplicate bind for sequence %q", s.Name, keycode.Render(args.Sequence))
	}
	s.Binds[key] = &args
	if len(args.Sequence) > 0 {
		s.Modifiers[args.Sequence[0].Code] = true
	}
	return nil
}

// Lookup finds the bind matching held. An exact (code, state) match on
// the sorted key wins first. Failing that, any bind with Exact == false
// whose sequence is a subset of held also matches (§3: "if true, a
// superset of held keys does not match this chord" — read the other way
// round for a non-exact bind). Subset matches are not otherwise ordered;
// configuring two overlapping non-exact binds in one submap is the
// caller's mistake to avoid.
func (s *Submap) Lookup(held keycode.Sequence) *BindArgs {
	if b, ok := s.Binds[held.Key()]; ok {
		return b
	}
	for _, b := range s.Binds {
		if !b.Exact && isSubset(b.Sequence, held) {
			return b
		}
	}
	return nil
}

// isSubset reports whether every entry of sub also appears in super.
func isSubset(sub, super keycode.Sequence) bool {
	present := make(map[keycode.Entry]bool, len(super))
	for _, e := range super {
		present[e] = true
	}
	for _, e := range sub {
		if !present[e] {
			return false
		}
	}
	return true
}

// Config is the top-level, immutable-for-the-run configuration (§3).
type Config struct {
	Submaps map[string]*Submap
}

// validate enforces §3's two invariants: every EnterSubmap target exists,
// and the "main" submap is present.
func (c *Config) validate() error {
	if _, ok := c.Submaps[submapMain]; !ok {
		return fmt.Errorf("config: missing required submap %q", submapMain)
	}
	for _, sm := range c.Submaps {
		for _, bind := range sm.Binds {
			for _, cmd := range bind.Commands {
				if cmd.Kind != CommandEnterSubmap {
					continue
				}
				if _, ok := c.Submaps[cmd.SubmapName]; !ok {
					return fmt.Errorf("config: submap %q binds enter unknown submap %q", sm.Name, cmd.SubmapName)
				}
			}
		}
	}
	return nil
}

const submapMain = "main"

// GetSubmaps returns the view the engine builds its submap.State from.
func (c *Config) GetSubmaps() map[string]*Submap {
	return c.Submaps
}
