package engine

import (
	"github.com/charmbracelet/log"
	evdev "github.com/holoplot/go-evdev"

	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/device"
	"github.com/mudras/mudras/internal/hotplug"
	"github.com/mudras/mudras/internal/keycode"
	"github.com/mudras/mudras/internal/signals"
	"github.com/mudras/mudras/internal/submap"
	"github.com/mudras/mudras/internal/vkbd"
)

// repeatValue is the evdev event value for a kernel auto-repeat.
const repeatValue = 2

// Engine owns every piece of mutable state for the run: the device
// registry, the submap state machine, and the virtual output handles
// (§3 "Ownership"). It is driven entirely by Run's single select loop —
// nothing else touches this state concurrently.
type Engine struct {
	cfg      *config.Config
	submaps  *submap.State
	registry *device.Registry
	vkbd     *vkbd.Devices
	hotplug  *hotplug.Monitor
	signals  *signals.Listener
	log      *log.Logger
}

// New builds an Engine ready to Run. Every physical keyboard discovered
// by the caller must already be registered in registry before Run is
// called.
func New(cfg *config.Config, registry *device.Registry, vk *vkbd.Devices, hp *hotplug.Monitor, sig *signals.Listener, logger *log.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		submaps:  submap.New(cfg),
		registry: registry,
		vkbd:     vk,
		hotplug:  hp,
		signals:  sig,
		log:      logger,
	}
}

// Run is the single-threaded cooperative multiplexer of §4.I. It blocks
// until a shutdown signal is observed, at which point every keyboard is
// ungrabbed and it returns.
func (e *Engine) Run() error {
	hpEvents := make(chan hotplug.Event)
	hpErrs := make(chan error, 1)
	go e.pumpHotplug(hpEvents, hpErrs)

	for {
		select {
		case action := <-e.signals.Actions():
			if e.handleSignal(action) {
				e.registry.UngrabAll()
				return nil
			}

		case ev := <-hpEvents:
			e.handleHotplug(ev)

		case err := <-hpErrs:
			e.log.Error("hotplug monitor error", "err", err)

		case de := <-e.registry.Events():
			e.handleDeviceEvent(de)
		}
	}
}

// pumpHotplug turns the blocking hotplug.Monitor.Next call into a
// channel the select loop can multiplex alongside everything else.
func (e *Engine) pumpHotplug(out chan<- hotplug.Event, errs chan<- error) {
	for {
		ev, err := e.hotplug.Next()
		if err != nil {
			errs <- err
			return
		}
		if ev.Devnode == "" {
			// Outside the input subsystem, or an input uevent with no
			// DEVNAME field yet (§4.D: "logged and skipped").
			e.log.Debug("skipping hotplug event with no devnode", "kind", ev.Kind)
			continue
		}
		out <- ev
	}
}

// handleSignal applies one translated signal action and reports whether
// the loop should terminate.
func (e *Engine) handleSignal(action signals.Action) bool {
	switch action {
	case signals.Ungrab:
		e.registry.UngrabAll()
		e.log.Info("ungrabbed all keyboards")
	case signals.Grab:
		if err := e.registry.GrabAll(); err != nil {
			e.log.Error("failed to re-grab all keyboards", "err", err)
		} else {
			e.log.Info("grabbed all keyboards")
		}
	case signals.Reload:
		// reserved, no-op (§4.H)
	case signals.Shutdown:
		return true
	}
	return false
}

// handleHotplug applies a kernel Add/Remove uevent to the device
// registry (§4.D).
func (e *Engine) handleHotplug(ev hotplug.Event) {
	switch ev.Kind {
	case hotplug.Add:
		if err := e.registry.Add(ev.Devnode); err != nil {
			e.log.Error("failed to grab newly added device", "path", ev.Devnode, "err", err)
		}
	case hotplug.Remove:
		e.registry.Remove(ev.Devnode)
	}
}

// handleDeviceEvent updates the originating device's KeyboardState and,
// for key events, runs the matching/dispatch algorithm; every other
// event type is forwarded verbatim (§4.E).
func (e *Engine) handleDeviceEvent(de device.Event) {
	ks := e.registry.State(de.Path)
	if ks == nil {
		// Registry and states are an invariant pair (§3); a miss here is
		// a transient hot-unplug race, not a reason to crash (§7).
		e.log.Error("event from unregistered device", "path", de.Path)
		return
	}

	switch de.Input.Type {
	case evdev.EV_SW:
		if err := e.vkbd.EmitSwitch(&de.Input); err != nil {
			e.log.Error("failed to emit switch event", "err", err)
		}
		return
	case evdev.EV_KEY:
		// fall through to matching below
	default:
		if err := e.vkbd.EmitKeyboard(&de.Input); err != nil {
			e.log.Error("failed to emit forwarded event", "err", err)
		}
		return
	}

	code := keycode.Code(de.Input.Code)
	state := keycode.Pressed
	if de.Input.Value == 0 {
		state = keycode.Released
	}
	isRepeat := de.Input.Value == repeatValue

	ks.Apply(code, state)

	d := evaluate(e.submaps, ks, code, state, isRepeat)
	if d.forward {
		if err := e.vkbd.EmitKeyboard(&de.Input); err != nil {
			e.log.Error("failed to emit forwarded event", "err", err)
		}
	}
	if d.fire != nil {
		dispatch(e.submaps, d.fire, e.log)
	}
}
