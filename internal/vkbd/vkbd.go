// Package vkbd creates and writes to the write-only uinput devices the
// engine re-emits swallowed and passthrough events on.
package vkbd

import (
	evdev "github.com/holoplot/go-evdev"
)

// Names of the three virtual devices this daemon creates. Device discovery
// (internal/device) rejects any physical device advertising one of these
// names so the daemon never grabs its own output and feeds back into
// itself.
const (
	NameKeyboard = "Mudras virtual keyboard"
	NameSwitch   = "Mudras virtual switch"
	NamePointer  = "Mudras virtual pointer"
)

var vendorID = evdev.InputID{
	BusType: 0x03, // BUS_USB
	Vendor:  0x4d75, // "Mu"
	Product: 0x6472, // "dr"
	Version: 1,
}

// Devices bundles the three uinput handles the engine writes to. All three
// are created at startup and held open for the process lifetime; a single
// device advertising keys, switches and relative axes together has been
// observed (in the original implementation this daemon is ported from) to
// prevent some consumers from seeing events at all, so each concern gets
// its own device instead.
type Devices struct {
	Keyboard *evdev.InputDevice
	Switch   *evdev.InputDevice
	Pointer  *evdev.InputDevice
}

// Create builds all three virtual devices. Failure is fatal at startup
// (§4.C): the caller should treat any error here as a startup-fatal
// condition and exit non-zero.
func Create() (*Devices, error) {
	kbd, err := createKeyboard()
	if err != nil {
		return nil, err
	}
	sw, err := createSwitch()
	if err != nil {
		kbd.Close()
		return nil, err
	}
	ptr, err := createPointer()
	if err != nil {
		kbd.Close()
		sw.Close()
		return nil, err
	}
	return &Devices{Keyboard: kbd, Switch: sw, Pointer: ptr}, nil
}

// Close releases all three uinput handles. Safe to call on a partially
// constructed Devices (nil fields are skipped).
func (d *Devices) Close() {
	if d == nil {
		return
	}
	if d.Keyboard != nil {
		d.Keyboard.Close()
	}
	if d.Switch != nil {
		d.Switch.Close()
	}
	if d.Pointer != nil {
		d.Pointer.Close()
	}
}

// EmitKeyboard writes an event to the virtual keyboard, used for the raw
// key events and the other (non-switch) event types §4.E forwards
// verbatim.
func (d *Devices) EmitKeyboard(e *evdev.InputEvent) error {
	return d.Keyboard.WriteOne(e)
}

// EmitSwitch writes a switch event (lid, tablet-mode, ...) to the virtual
// switches device. Switch events bypass keyboard state tracking entirely
// and are always forwarded (§4.E).
func (d *Devices) EmitSwitch(e *evdev.InputEvent) error {
	return d.Switch.WriteOne(e)
}

func createKeyboard() (*evdev.InputDevice, error) {
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: allKeyCodes(),
	}
	return evdev.CreateDevice(NameKeyboard, vendorID, caps)
}

func createSwitch() (*evdev.InputDevice, error) {
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_SW: {
			evdev.EvCode(0x00), // SW_LID
			evdev.EvCode(0x01), // SW_TABLET_MODE
		},
	}
	return evdev.CreateDevice(NameSwitch, vendorID, caps)
}

// createPointer builds the legacy relative-pointer device. Deprecated: no
// component of this engine ever writes to it (nothing in the matching and
// dispatch logic produces pointer motion), but it is still advertised at
// startup because some external tools probe for its presence — see
// SPEC_FULL.md §5.1.
func createPointer() (*evdev.InputDevice, error) {
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_REL: {
			evdev.EvCode(0x00), // REL_X
			evdev.EvCode(0x01), // REL_Y
			evdev.EvCode(0x08), // REL_WHEEL
		},
	}
	return evdev.CreateDevice(NamePointer, vendorID, caps)
}

// allKeyCodes returns the full keyboard keycode range the virtual keyboard
// advertises, so it can re-emit anything a real keyboard might send.
func allKeyCodes() []evdev.EvCode {
	codes := make([]evdev.EvCode, 0, 248)
	for c := evdev.EvCode(1); c <= 248; c++ {
		codes = append(codes, c)
	}
	return codes
}
