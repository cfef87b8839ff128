package device

import (
	"github.com/charmbracelet/log"
	evdev "github.com/holoplot/go-evdev"

	"github.com/mudras/mudras/internal/keystate"
)

// Event is one input event read from a physical keyboard, tagged with
// the device path it came from so the engine can route it to the right
// KeyboardState.
type Event struct {
	Path  string
	Input evdev.InputEvent
}

// stream owns one open, grabbed keyboard device and the goroutine
// reading from it.
type stream struct {
	path  string
	dev   *evdev.InputDevice
	state *keystate.KeyboardState
	stop  chan struct{}
}

func newStream(path string, dev *evdev.InputDevice) *stream {
	return &stream{
		path:  path,
		dev:   dev,
		state: keystate.New(),
		stop:  make(chan struct{}),
	}
}

// run reads events until the device closes or stop is signalled,
// forwarding each one onto out. It returns when ReadOne errors, which is
// how a device unplug while grabbed is observed (§4.D). logger is the
// quieted "evdev" namespace: a closed device produces one read error per
// unplug, routine enough that the original pins it below its own -v
// threshold.
func (s *stream) run(out chan<- Event, logger *log.Logger) {
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		ev, err := s.dev.ReadOne()
		if err != nil {
			logger.Debug("device read ended", "path", s.path, "err", err)
			return
		}
		select {
		case out <- Event{Path: s.path, Input: *ev}:
		case <-s.stop:
			return
		}
	}
}

func (s *stream) close() {
	close(s.stop)
	s.dev.Ungrab()
	s.dev.Close()
}
