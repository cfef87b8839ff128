// Package keycode translates the symbolic key names used in configuration
// files into the numeric keycodes the kernel's evdev layer reports, and
// back again.
package keycode

// Code is a stable integer identifier for a physical key, matching the
// kernel's evdev namespace (linux/input-event-codes.h).
type Code uint16

// Reserved is the sentinel keycode for unknown tokens (KEY_RESERVED).
const Reserved Code = 0

// nameTable maps lowercase symbolic names to evdev keycodes. Multiple
// aliases may resolve to the same code (e.g. "super" and "super_l").
var nameTable = map[string]Code{
	"escape":    1,
	"1":         2,
	"2":         3,
	"3":         4,
	"4":         5,
	"5":         6,
	"6":         7,
	"7":         8,
	"8":         9,
	"9":         10,
	"0":         11,
	"backspace": 14,
	"tab":       15,
	"q":         16,
	"w":         17,
	"e":         18,
	"r":         19,
	"t":         20,
	"y":         21,
	"u":         22,
	"i":         23,
	"o":         24,
	"p":         25,
	"enter":     28,
	"ctrl_l":    29,
	"ctrl":      29,
	"a":         30,
	"s":         31,
	"d":         32,
	"f":         33,
	"g":         34,
	"h":         35,
	"j":         36,
	"k":         37,
	"l":         38,
	"shift_l":   42,
	"shift":     42,
	"z":         44,
	"x":         45,
	"c":         46,
	"v":         47,
	"b":         48,
	"n":         49,
	"m":         50,
	"shift_r":   54,
	"alt":       56,
	"alt_l":     56,
	"space":     57,
	"ctrl_r":    97,
	"alt_r":     100,
	"up":        103,
	"left":      105,
	"right":     106,
	"down":      108,
	"super_l":   125,
	"super":     125,
	"super_r":   126,
}

// reverseTable picks one canonical name per code for Render. It is built
// once from nameTable, preferring the shortest alias (so "super" wins over
// "super_l", "ctrl" wins over "ctrl_l", and so on).
var reverseTable = buildReverseTable()

func buildReverseTable() map[Code]string {
	rev := make(map[Code]string, len(nameTable))
	for name, code := range nameTable {
		existing, ok := rev[code]
		if !ok || len(name) < len(existing) {
			rev[code] = name
		}
	}
	return rev
}

// Lookup resolves a single lowercase token to its keycode. Unknown tokens
// resolve to Reserved.
func Lookup(token string) Code {
	if code, ok := nameTable[token]; ok {
		return code
	}
	return Reserved
}

// Name returns the canonical symbolic name for a keycode, or "" if none is
// registered (this includes Reserved, which has no canonical name).
func Name(code Code) string {
	return reverseTable[code]
}
