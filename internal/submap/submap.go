// Package submap tracks which named binding set is currently active
// (§3 SubmapState, §4.F).
package submap

import (
	"github.com/mudras/mudras/internal/config"
)

// MainName is the always-present initial submap.
const MainName = "main"

// State holds the current submap name against an immutable reference to
// the loaded config's submaps. current is always a key of submaps
// (enforced by the config loader and by EnterSubmap's own guard).
type State struct {
	submaps map[string]*config.Submap
	current string
}

// New builds a State positioned at the main submap. cfg must already
// satisfy config's invariants (every referenced submap exists).
func New(cfg *config.Config) *State {
	return &State{submaps: cfg.Submaps, current: MainName}
}

// Current returns the active submap.
func (s *State) Current() *config.Submap {
	return s.submaps[s.current]
}

// CurrentName returns the active submap's name.
func (s *State) CurrentName() string {
	return s.current
}

// EnterSubmap transitions to name if it exists, reporting whether the
// transition happened. An unknown name leaves the state unchanged; the
// caller is expected to log a warning in that case (§4.F, §7).
func (s *State) EnterSubmap(name string) bool {
	if _, ok := s.submaps[name]; !ok {
		return false
	}
	s.current = name
	return true
}

// ExitSubmap returns to the main submap.
func (s *State) ExitSubmap() {
	s.current = MainName
}
