package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mudras/mudras/internal/keycode"
)

// Load reads and parses the config file at path, returning a validated
// Config or a diagnostic error. A missing file is itself a diagnostic
// error (§6: "the daemon exits with a diagnostic pointing at the
// expected path"), not a fallback to defaults — the core has no
// built-in bindings to fall back to.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config: no config file at %s", path)
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	nodes, err := parseNodes(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg := &Config{Submaps: map[string]*Submap{submapMain: newSubmap(submapMain)}}
	main := cfg.Submaps[submapMain]

	for _, n := range nodes {
		if n.name == "@submap" {
			name, ok := n.props["name"]
			if !ok {
				var err error
				if name, err = firstArgString(n); err != nil {
					return nil, err
				}
			}
			sm := newSubmap(name)
			if err := populateSubmap(sm, n.children); err != nil {
				return nil, err
			}
			cfg.Submaps[name] = sm
			continue
		}
		if err := addBindNode(main, n); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func populateSubmap(sm *Submap, nodes []*node) error {
	for _, n := range nodes {
		if err := addBindNode(sm, n); err != nil {
			return err
		}
	}
	return nil
}

// addBindNode converts one top-level bind node (the chord text as its
// name, "@press"/"@release" children) into one or two BindArgs entries
// — press and release share the node's swallow property but otherwise
// have independent command lists and, for press only, a repeat flag.
func addBindNode(sm *Submap, n *node) error {
	swallow := n.boolProp("swallow", true)

	var pressNode, releaseNode *node
	for _, child := range n.children {
		switch child.name {
		case "@press":
			pressNode = child
		case "@release":
			releaseNode = child
		default:
			return fmt.Errorf("config: bind %q: unexpected child %q", n.name, child.name)
		}
	}

	if pressNode == nil && releaseNode == nil {
		return fmt.Errorf("config: bind %q has neither @press nor @release", n.name)
	}

	if pressNode != nil {
		seq := keycode.ParseChord(n.name, keycode.Press)
		cmds, err := parseCommands(pressNode.children)
		if err != nil {
			return err
		}
		args := DefaultBindArgs(seq)
		args.Swallow = swallow
		args.Repeat = pressNode.boolProp("repeat", false)
		args.Commands = cmds
		if err := sm.addBind(args); err != nil {
			return err
		}
	}
	if releaseNode != nil {
		seq := keycode.ParseChord(n.name, keycode.Release)
		cmds, err := parseCommands(releaseNode.children)
		if err != nil {
			return err
		}
		args := DefaultBindArgs(seq)
		args.Swallow = swallow
		args.Commands = cmds
		if err := sm.addBind(args); err != nil {
			return err
		}
	}
	return nil
}

func parseCommands(nodes []*node) ([]Command, error) {
	cmds := make([]Command, 0, len(nodes))
	for _, n := range nodes {
		switch n.name {
		case "-":
			text, err := firstArgString(n)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, Command{Kind: CommandShell, Shell: text})
		case "@enter":
			name, err := firstArgString(n)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, Command{Kind: CommandEnterSubmap, SubmapName: name})
		case "@exit":
			cmds = append(cmds, Command{Kind: CommandExitSubmap})
		default:
			return nil, fmt.Errorf("config: unexpected action node %q", n.name)
		}
	}
	return cmds, nil
}

// DefaultPath resolves the config file location. Release builds use
// ~/.config/mudras/config.kdl; this is overridden by MUDRAS_CONFIG_DIR
// (the debug/development equivalent of the original's
// CARGO_MANIFEST_DIR-relative debug path, §6).
func DefaultPath() (string, error) {
	if dir := os.Getenv("MUDRAS_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.kdl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mudras", "config.kdl"), nil
}

// ExpandHome expands a leading "~" against the user's home directory,
// mirroring the original's shellexpand-based path handling.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
