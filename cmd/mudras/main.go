// Command mudras is a user-space hotkey daemon: it grabs keyboards at
// the evdev layer, matches configured chords against the live keyboard
// state, and fires shell commands or submap transitions on match.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mudras/mudras/internal/applog"
	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/device"
	"github.com/mudras/mudras/internal/engine"
	"github.com/mudras/mudras/internal/hotplug"
	"github.com/mudras/mudras/internal/signals"
	"github.com/mudras/mudras/internal/vkbd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	root := &cobra.Command{
		Use:   "mudras",
		Short: "A modal, evdev-level hotkey daemon",
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Grab keyboards and start matching configured binds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(verbosity)
		},
	}
	root.AddCommand(runCmd)
	return root
}

// run wires config → virtual devices → discovery → hot-plug → engine
// and blocks until a terminating signal is observed (§6, §7: any
// startup failure here is fatal with exit status 1).
func run(verbosity int) error {
	logger := applog.New(verbosity)

	path, err := config.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("cannot start without a valid configuration", "path", path, "err", err)
		return err
	}

	vk, err := vkbd.Create()
	if err != nil {
		logger.Error("failed to create virtual output devices", "err", err)
		return err
	}
	defer vk.Close()

	evdevLog := applog.Named(logger, "evdev")

	keyboards, err := device.Discover(logger)
	if err != nil {
		logger.Error("failed to enumerate input devices", "err", err)
		return err
	}
	if _, err := device.DiscoverPointers(logger); err != nil {
		logger.Error("failed to enumerate pointer devices", "err", err)
	}

	registry := device.NewRegistry(64, evdevLog)
	defer registry.Close()
	for _, kbPath := range keyboards {
		if err := registry.Add(kbPath); err != nil {
			logger.Error("failed to grab keyboard", "path", kbPath, "err", err)
			continue
		}
		logger.Info("grabbed keyboard", "path", kbPath)
	}

	mon, err := hotplug.Open(applog.Named(logger, "netlink"))
	if err != nil {
		logger.Error("failed to open udev monitor", "err", err)
		return err
	}
	defer mon.Close()

	sig := signals.NewListener()
	defer sig.Stop()

	eng := engine.New(cfg, registry, vk, mon, sig, logger)
	logger.Info("mudras running", "keyboards", len(keyboards))
	if err := eng.Run(); err != nil {
		return err
	}
	// A terminating signal ends the run; report it as an error so the
	// process exits with status 1 (§6).
	return fmt.Errorf("stopped by terminating signal")
}
