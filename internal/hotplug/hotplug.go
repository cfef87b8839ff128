// Package hotplug watches the kernel's input subsystem for device
// add/remove events over a netlink uevent socket, the same mechanism
// udev itself listens on (§4.D).
package hotplug

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// EventKind distinguishes a device arriving from a device leaving.
type EventKind int

const (
	Add EventKind = iota
	Remove
)

// Event is one parsed kernel uevent for the input subsystem.
type Event struct {
	Kind    EventKind
	Devnode string // e.g. "/dev/input/event7"; empty if the uevent carried none
}

// groupKobjectUevent is NETLINK_KOBJECT_UEVENT's only multicast group.
const groupKobjectUevent = 1

// Monitor is an open netlink socket subscribed to kobject uevents.
type Monitor struct {
	conn *netlink.Conn
	log  *log.Logger
}

// Open binds a netlink socket to the kernel uevent multicast group. The
// returned Monitor must be closed by the caller. logger should be
// namespaced (applog.Named(root, "netlink")): it only ever receives the
// raw socket-lifecycle chatter the original pins to error level
// independent of -v.
func Open(logger *log.Logger) (*Monitor, error) {
	conn, err := netlink.Dial(unix.NETLINK_KOBJECT_UEVENT, &netlink.Config{
		Groups: groupKobjectUevent,
	})
	if err != nil {
		return nil, fmt.Errorf("hotplug: open netlink socket: %w", err)
	}
	logger.Debug("netlink uevent monitor opened", "group", groupKobjectUevent)
	return &Monitor{conn: conn, log: logger}, nil
}

// Close releases the netlink socket.
func (m *Monitor) Close() error {
	m.log.Debug("netlink uevent monitor closed")
	return m.conn.Close()
}

// Next blocks for the next uevent and parses it. Events outside the
// "input" subsystem, or carrying no usable action, are returned with a
// nil error and a zero-value Event whose Devnode is empty; callers
// should skip those (§4.D: "logged and skipped").
func (m *Monitor) Next() (Event, error) {
	msgs, err := m.conn.Receive()
	if err != nil {
		return Event{}, fmt.Errorf("hotplug: receive: %w", err)
	}
	for _, msg := range msgs {
		if ev, ok := parseUevent(msg.Data); ok {
			return ev, nil
		}
	}
	return Event{}, nil
}

// parseUevent decodes a kobject-uevent payload. The wire format is a
// leading "ACTION@/devpath" line followed by NUL-separated "KEY=VALUE"
// fields, e.g.:
//
//	add@/devices/platform/.../input/input7/event7
//	ACTION=add
//	SUBSYSTEM=input
//	DEVNAME=input/event7
//	...
func parseUevent(data []byte) (Event, bool) {
	fields := bytes.Split(data, []byte{0})
	if len(fields) == 0 {
		return Event{}, false
	}

	var action, subsystem, devname string
	// fields[0] is "ACTION@DEVPATH"; the actual ACTION=/SUBSYSTEM=/DEVNAME=
	// lines follow as independent fields.
	for _, f := range fields[1:] {
		s := string(f)
		switch {
		case strings.HasPrefix(s, "ACTION="):
			action = strings.TrimPrefix(s, "ACTION=")
		case strings.HasPrefix(s, "SUBSYSTEM="):
			subsystem = strings.TrimPrefix(s, "SUBSYSTEM=")
		case strings.HasPrefix(s, "DEVNAME="):
			devname = strings.TrimPrefix(s, "DEVNAME=")
		}
	}

	if subsystem != "input" {
		return Event{}, false
	}

	var kind EventKind
	switch action {
	case "add":
		kind = Add
	case "remove":
		kind = Remove
	default:
		return Event{}, false
	}

	devnode := ""
	if devname != "" {
		devnode = "/dev/" + devname
	}
	return Event{Kind: kind, Devnode: devnode}, true
}
