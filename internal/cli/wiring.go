package cli

import (
	"github.com/turtacn/Lulo/internal/config"
	"github.com/turtacn/Lulo/internal/installer"
	"github.com/turtacn/Lulo/internal/locator"
	"github.com/turtacn/Lulo/internal/orchestrator"
	"github.com/turtacn/Lulo/internal/probe"
	"github.com/turtacn/Lulo/internal/supervisor"
	"github.com/turtacn/Lulo/pkg/protocol"
)

func newLocator(c *protocol.Config) *locator.Locator {
	return locator.New(locator.Options{
		ResourceDir: c.Runtime.ResourceDir,
		AppDir:      c.Runtime.AppDir,
		Override:    c.Runtime.Binary,
	})
}

func newProbe(c *protocol.Config, t config.Timings) *probe.HealthProbe {
	return probe.New(c.Runtime.Endpoint, t.ProbeTimeout)
}

func newEngine(c *protocol.Config, confirm orchestrator.Confirmer, sink orchestrator.Sink, progress installer.ProgressFunc) (*orchestrator.Engine, error) {
	t, err := config.ParseTimings(c)
	if err != nil {
		return nil, err
	}
	hp := newProbe(c, t)
	sup := supervisor.New(hp, supervisor.Options{
		PollInterval: t.PollInterval,
		PollAttempts: t.PollAttempts,
		StopTimeout:  t.StopTimeout,
		LogFile:      c.Runtime.LogFile,
	})
	return orchestrator.NewEngine(c, orchestrator.Deps{
		Locator:    newLocator(c),
		Prober:     hp,
		Supervisor: sup,
		NewInstaller: func(binaryPath string) orchestrator.Installer {
			return installer.New(binaryPath, c.Model.Alias, progress)
		},
		Confirm: confirm,
		Sink:    sink,
	}), nil
}

// Personal.AI order the ending
