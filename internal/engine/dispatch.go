package engine

import (
	"github.com/charmbracelet/log"

	"github.com/mudras/mudras/internal/config"
	"github.com/mudras/mudras/internal/shell"
	"github.com/mudras/mudras/internal/submap"
)

// dispatch runs a matched bind's command list in order (§4.G.8) and then
// applies any recorded submap transition (§4.G.9, §4.F: transitions take
// effect only after the full list has run).
func dispatch(sm *submap.State, bind *config.BindArgs, logger *log.Logger) {
	var enterTo string
	exit := false

	for _, cmd := range bind.Commands {
		switch cmd.Kind {
		case config.CommandShell:
			if err := shell.Run(cmd.Shell); err != nil {
				logger.Error("failed to spawn shell command", "command", cmd.Shell, "err", err)
			}
		case config.CommandEnterSubmap:
			enterTo, exit = cmd.SubmapName, false
		case config.CommandExitSubmap:
			enterTo, exit = "", true
		}
	}

	switch {
	case exit:
		sm.ExitSubmap()
	case enterTo != "":
		if !sm.EnterSubmap(enterTo) {
			logger.Warn("bind names unknown submap", "name", enterTo)
		}
	}
}
