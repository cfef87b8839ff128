// Package keystate tracks the live set of held keys for a single physical
// keyboard device (spec §4.E).
package keystate

import "github.com/mudras/mudras/internal/keycode"

// KeyboardState holds a device's current held-key snapshot and the
// snapshot immediately before the most recent event. The invariant after
// any event is that Previous equals the Current value just before the
// event was applied.
type KeyboardState struct {
	Current  map[keycode.Code]keycode.State
	Previous map[keycode.Code]keycode.State
}

// New returns an empty KeyboardState, both snapshots empty.
func New() *KeyboardState {
	return &KeyboardState{
		Current:  make(map[keycode.Code]keycode.State),
		Previous: make(map[keycode.Code]keycode.State),
	}
}

// Apply folds one incoming (code, state) event into the state machine:
//
//  1. previous <- current (deep copy)
//  2. prune every entry from current whose value is Released (a release
//     from the previous event has now been observed once and is retired)
//  3. insert (code, state), overwriting any prior value
//
// Step 2 gives an "edge, not level" view: a key participates in exactly
// one matching decision at release and then disappears. Step 1 lets the
// caller detect a release transition by comparing len(Previous) to
// len(Current) after Apply returns.
func (s *KeyboardState) Apply(code keycode.Code, state keycode.State) {
	prev := make(map[keycode.Code]keycode.State, len(s.Current))
	for k, v := range s.Current {
		prev[k] = v
	}
	s.Previous = prev

	for k, v := range s.Current {
		if v == keycode.Released {
			delete(s.Current, k)
		}
	}
	s.Current[code] = state
}

// Held returns the currently-held keys as a sequence sorted ascending by
// keycode, the order match-time lookups (§4.G) compare against.
func (s *KeyboardState) Held() keycode.Sequence {
	seq := make(keycode.Sequence, 0, len(s.Current))
	for k, v := range s.Current {
		seq = append(seq, keycode.Entry{Code: k, State: v})
	}
	return seq.Sorted()
}

// ReleaseEdge reports whether the most recent Apply observed a key go
// away: the previous snapshot had strictly more entries than the current
// one. Used by the matching engine's release-edge filter (§4.G.5).
func (s *KeyboardState) ReleaseEdge() bool {
	return len(s.Previous) > len(s.Current)
}

// HasAny reports whether any of the given keycodes is present in the
// current snapshot, used by the modifier-gate passthrough decision
// (§4.G.3).
func (s *KeyboardState) HasAny(codes []keycode.Code) bool {
	for _, c := range codes {
		if _, ok := s.Current[c]; ok {
			return true
		}
	}
	return false
}
