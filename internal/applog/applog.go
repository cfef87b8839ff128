// Package applog builds the single structured logger the rest of the
// daemon is handed at construction time, the Go analogue of the
// original's tracing/env_logger pairing (SPEC_FULL.md §3).
package applog

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger at the level implied by verbosity: 0 is Info, 1 is
// Debug, 2 or more is also Debug with caller reporting enabled — the
// same step-per-flag behavior as clap_verbosity_flag in the original
// CLI.
func New(verbosity int) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	switch {
	case verbosity >= 2:
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	case verbosity == 1:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}

// quietNamespaces pins a sub-logger's level to Error independent of the
// root's verbosity. This is the Go analogue of the original's
// "mio=error,sqlx=error,russh=error,users=warn" env_logger directives:
// the evdev/netlink dependencies' own read-loop and socket chatter is
// routine at a rate that would otherwise drown out mudras's own -v/-vv
// output.
var quietNamespaces = map[string]bool{
	"evdev":   true,
	"netlink": true,
}

// Named returns a sub-logger prefixed with namespace. Namespaces listed
// in quietNamespaces are pinned to Error regardless of root's level;
// every other namespace inherits root's current level.
func Named(root *log.Logger, namespace string) *log.Logger {
	sub := root.WithPrefix(namespace)
	if quietNamespaces[namespace] {
		sub.SetLevel(log.ErrorLevel)
	}
	return sub
}
