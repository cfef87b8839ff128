// Package engine implements the matching and dispatch algorithm (§4.G)
// and the single-threaded event loop that drives it (§4.I).
package engine

import (
	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/keycode"
	"github.com/mudras/mudras/internal/keystate"
	"github.com/mudras/mudras/internal/submap"
)

// decision is the outcome of evaluating one key event against the
// current submap and keyboard state.
type decision struct {
	forward bool            // emit the raw event on the virtual keyboard
	fire    *config.BindArgs // non-nil: run this bind's commands
}

// evaluate runs the nine steps of §4.G for one (code, state) event that
// keystate.Apply has already folded into ks. isRepeat is true for a
// kernel auto-repeat (evdev value 2).
func evaluate(sm *submap.State, ks *keystate.KeyboardState, code keycode.Code, state keycode.State, isRepeat bool) decision {
	cur := sm.Current()
	held := ks.Held()

	// 3. Passthrough decision (modifier gate).
	hasAnyMod := ks.HasAny(modifierCodes(cur))
	if !hasAnyMod {
		return decision{forward: true}
	}

	// 4. Lookup. A miss here forwards only if step 3 would have
	// forwarded — since hasAnyMod is true on this path, step 3 did not
	// forward, so a miss stays swallowed silently rather than leaking
	// through (§4.G.4, §8 scenario 3).
	bind := cur.Lookup(held)
	if bind == nil {
		return decision{forward: !hasAnyMod}
	}

	// 5. Release edge filter.
	if state == keycode.Released && ks.ReleaseEdge() {
		if keycode.KindOf(bind.Sequence) == keycode.Release {
			return decision{forward: true, fire: bind}
		}
		return decision{forward: true}
	}

	// 6. Exactness is enforced inside Lookup itself (an exact-sequence
	// key hit is already exact; a subset hit only happens for binds
	// explicitly marked non-exact), so there is nothing further to do
	// here for the positive match path.

	// 7. Swallow/repeat.
	if isRepeat && !bind.Repeat {
		return decision{forward: false}
	}

	return decision{forward: !bind.Swallow, fire: bind}
}

// modifierCodes flattens a submap's derived modifier set into a slice
// for keystate.HasAny.
func modifierCodes(sm *config.Submap) []keycode.Code {
	codes := make([]keycode.Code, 0, len(sm.Modifiers))
	for c := range sm.Modifiers {
		codes = append(codes, c)
	}
	return codes
}
