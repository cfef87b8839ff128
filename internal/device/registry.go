package device

import (
	"github.com/charmbracelet/log"
	evdev "github.com/holoplot/go-evdev"

	"github.com/mudras/mudras/internal/keystate"
)

// Registry owns every grabbed keyboard stream. It is not safe for
// concurrent use: the event loop is its only caller, and Add/Remove are
// themselves driven by events the loop reads off its own Events channel
// (spec §5's single-owner concurrency model).
type Registry struct {
	streams map[string]*stream
	events  chan Event
	log     *log.Logger
}

// NewRegistry builds an empty registry. bufsize sizes the fan-in channel;
// callers pick something comfortably larger than the device count so a
// burst of repeats on one device never blocks another device's reader
// goroutine. logger should be namespaced (applog.Named(root, "evdev")):
// it only ever receives the routine per-device lifecycle chatter the
// original pins to error level independent of -v.
func NewRegistry(bufsize int, logger *log.Logger) *Registry {
	return &Registry{
		streams: make(map[string]*stream),
		events:  make(chan Event, bufsize),
		log:     logger,
	}
}

// Events is the fan-in channel every grabbed device's reader goroutine
// writes to.
func (r *Registry) Events() <-chan Event {
	return r.events
}

// Add opens, grabs, and starts streaming the device at path. It is a
// no-op if path is already tracked. A device that is not a keyboard
// (IsKeyboard) is closed again and skipped with a nil error. Grab failure
// (another process holds it, or permission denied) is returned to the
// caller without adding the device.
func (r *Registry) Add(path string) error {
	if _, ok := r.streams[path]; ok {
		return nil
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return err
	}
	if !IsKeyboard(dev) {
		dev.Close()
		return nil
	}
	if err := dev.Grab(); err != nil {
		dev.Close()
		return err
	}
	s := newStream(path, dev)
	r.streams[path] = s
	go s.run(r.events, r.log)
	return nil
}

// Remove ungrabs and closes the device at path, if tracked. Called when
// a hot-unplug is observed (§4.D); it is safe even if the device node is
// already gone.
func (r *Registry) Remove(path string) {
	s, ok := r.streams[path]
	if !ok {
		return
	}
	s.close()
	delete(r.streams, path)
	r.log.Debug("ungrabbed device", "path", path)
}

// State returns the KeyboardState tracking path, or nil if path is not
// currently tracked (a device ungrabbed by UngrabAll is still tracked).
func (r *Registry) State(path string) *keystate.KeyboardState {
	s, ok := r.streams[path]
	if !ok {
		return nil
	}
	return s.state
}

// UngrabAll releases the exclusive grab on every tracked device without
// closing it, used when SIGUSR1 asks the daemon to step aside (§4.H).
// The reader goroutines keep running; the device simply stops being
// exclusively ours, so other processes (a screen locker, a compositor)
// can see its events too.
func (r *Registry) UngrabAll() {
	for _, s := range r.streams {
		s.dev.Ungrab()
	}
}

// GrabAll re-acquires the exclusive grab on every tracked device,
// reversing UngrabAll (SIGUSR2, §4.H).
func (r *Registry) GrabAll() error {
	for _, s := range r.streams {
		if err := s.dev.Grab(); err != nil {
			return err
		}
	}
	return nil
}

// Paths returns the device paths currently tracked, for diagnostics.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.streams))
	for p := range r.streams {
		paths = append(paths, p)
	}
	return paths
}

// Close ungrabs and closes every tracked device.
func (r *Registry) Close() {
	for path := range r.streams {
		r.Remove(path)
	}
}
