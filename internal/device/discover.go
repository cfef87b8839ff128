// Package device enumerates physical keyboards under /dev/input, grabs
// them exclusively, and fans their events into a single channel the
// engine's event loop selects on.
package device

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	evdev "github.com/holoplot/go-evdev"

	"github.com/mudras/mudras/internal/vkbd"
)

// keyEnter is KEY_ENTER, the capability every real keyboard advertises
// and the cheapest reliable discriminator between a keyboard and a mouse
// or other non-keyboard input device (§4.D).
const keyEnter = evdev.EvCode(28)

// relX is REL_X, the capability every mouse-like pointer advertises.
const relX = evdev.EvCode(0x00)

// virtualNames excludes this daemon's own uinput output devices from
// discovery, so a restart never grabs (and forwards into) itself.
var virtualNames = map[string]bool{
	vkbd.NameKeyboard: true,
	vkbd.NameSwitch:   true,
	vkbd.NamePointer:  true,
}

// Discover lists every /dev/input/event* node that looks like a
// keyboard, in ascending numeric order. It opens and immediately closes
// each candidate device to inspect its capabilities and name. logger
// receives a debug-level count of what was found, mirroring the
// original's "{} keyboard device(s) detected." startup diagnostic.
func Discover(logger *log.Logger) ([]string, error) {
	keyboards, err := discover(IsKeyboard)
	if err != nil {
		return nil, err
	}
	logger.Debug("keyboard device(s) detected", "count", len(keyboards))
	return keyboards, nil
}

// DiscoverPointers lists every /dev/input/event* node that looks like a
// mouse-style pointer, in ascending numeric order. Nothing grabs or
// streams these devices today — this enumeration exists purely for the
// startup diagnostic parity the original keeps with its keyboard count.
func DiscoverPointers(logger *log.Logger) ([]string, error) {
	pointers, err := discover(IsPointer)
	if err != nil {
		return nil, err
	}
	logger.Debug("pointer device(s) detected (unused)", "count", len(pointers))
	return pointers, nil
}

func discover(match func(*evdev.InputDevice) bool) ([]string, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool { return eventNumber(paths[i]) < eventNumber(paths[j]) })

	var matched []string
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if match(dev) {
			matched = append(matched, path)
		}
		dev.Close()
	}
	return matched, nil
}

// IsKeyboard reports whether dev advertises KEY_ENTER and is not one of
// this daemon's own virtual output devices.
func IsKeyboard(dev *evdev.InputDevice) bool {
	if isVirtual(dev) {
		return false
	}
	return hasCapability(dev, evdev.EV_KEY, keyEnter)
}

// IsPointer reports whether dev advertises REL_X and is not one of this
// daemon's own virtual output devices.
func IsPointer(dev *evdev.InputDevice) bool {
	if isVirtual(dev) {
		return false
	}
	return hasCapability(dev, evdev.EV_REL, relX)
}

func isVirtual(dev *evdev.InputDevice) bool {
	name, err := dev.Name()
	return err == nil && virtualNames[name]
}

func hasCapability(dev *evdev.InputDevice, evType evdev.EvType, code evdev.EvCode) bool {
	for _, t := range dev.CapableTypes() {
		if t != evType {
			continue
		}
		for _, c := range dev.CapableEvents(evType) {
			if c == code {
				return true
			}
		}
	}
	return false
}

// eventNumber extracts the trailing integer from a "/dev/input/eventN"
// path for numeric (not lexicographic) sorting, so event9 sorts before
// event10.
func eventNumber(path string) int {
	base := filepath.Base(path)
	digits := strings.TrimPrefix(base, "event")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}
