package keycode

import (
	"fmt"
	"sort"
	"strings"
)

// State is one of Pressed, Released, or Undefined. Only Pressed and
// Released originate from real events; Undefined is the initial slot
// value of a KeyboardState entry before any event has touched it.
type State int

const (
	Undefined State = iota
	Pressed
	Released
)

// ChordKind selects whether the last token of a chord description binds to
// a press or a release.
type ChordKind int

const (
	Press ChordKind = iota
	Release
)

// Entry is one (Keycode, KeyState) pair in a chord's trigger condition.
type Entry struct {
	Code  Code
	State State
}

// Sequence is an ordered sequence of Entry. ParseChord stores entries in
// the order the chord text names them (so the first entry is the chord's
// first key); Sorted, Equal and Key compare by the canonical ordering
// ascending by Code.
type Sequence []Entry

// Sorted returns a new Sequence ordered ascending by keycode, which is the
// order match-time comparisons (§4.G) are defined over.
func (s Sequence) Sorted() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Equal reports whether two sequences are the same sorted list of pairs.
func (s Sequence) Equal(other Sequence) bool {
	a, b := s.Sorted(), other.Sorted()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseChord splits text on "+", lowercases each token, and looks each up
// in the keycode table. Unknown tokens map to Reserved. Every token is
// Pressed by default; when kind is Release, the last token's state is
// overridden to Released. The empty string yields a single
// (Reserved, Pressed) entry.
func ParseChord(text string, kind ChordKind) Sequence {
	tokens := strings.Split(text, "+")
	seq := make(Sequence, 0, len(tokens))
	for _, tok := range tokens {
		code := Lookup(strings.ToLower(strings.TrimSpace(tok)))
		seq = append(seq, Entry{Code: code, State: Pressed})
	}
	if kind == Release && len(seq) > 0 {
		seq[len(seq)-1].State = Released
	}
	return seq
}

// Render renders a sequence back into chord text of the form "a+b+c",
// using each entry's canonical name. Unknown keycodes render as "". Render
// inverts ParseChord: ParseChord(Render(seq), KindOf(seq)) == seq for any
// canonical sequence (every code has a name, and only the last entry may
// be Released).
func Render(seq Sequence) string {
	names := make([]string, len(seq))
	for i, e := range seq {
		names[i] = Name(e.Code)
	}
	return strings.Join(names, "+")
}

// KindOf reports the ChordKind implied by a sequence: Release if its last
// entry is Released, Press otherwise.
func KindOf(seq Sequence) ChordKind {
	if len(seq) > 0 && seq[len(seq)-1].State == Released {
		return Release
	}
	return Press
}

// Key returns a canonical string encoding of the sorted sequence, stable
// across equal sequences regardless of construction order. Configuration
// and the matching engine both use it as a map key, which is how §3's
// "no two binds share the same sorted KeySequence" invariant is enforced
// (a duplicate simply collides on insert).
func (s Sequence) Key() string {
	sorted := s.Sorted()
	var b strings.Builder
	for i, e := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d:%d", e.Code, e.State)
	}
	return b.String()
}
