package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/turtacn/Lulo/internal/config"
	"github.com/turtacn/Lulo/internal/orchestrator"
	"github.com/turtacn/Lulo/internal/probe"
	"gopkg.in/yaml.v3"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the runtime binary that would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		loc := newLocator(cfg)
		bin, err := loc.Locate(cmd.Context())
		if err != nil {
			fmt.Fprintln(out, styles.Box.Render(orchestrator.InstallInstructions(loc.Platform())))
			return err
		}
		fmt.Fprintf(out, "%s %s\n", bin.Path, styles.Muted.Render("("+bin.Source+", "+string(bin.Platform)+")"))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the runtime is reachable and which models it has",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := config.ParseTimings(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		hp := newProbe(cfg, t)

		if !hp.IsRunning(cmd.Context()) {
			fmt.Fprintf(out, "%s runtime not reachable at %s\n", styles.Warning.Render("!"), cfg.Runtime.Endpoint)
			return nil
		}
		fmt.Fprintf(out, "%s runtime reachable at %s\n", styles.Info.Render("•"), cfg.Runtime.Endpoint)

		models, err := hp.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
		if probe.ContainsModel(models, cfg.Model.Match) {
			fmt.Fprintln(out, styles.Title.Render("required model present"))
		} else {
			fmt.Fprintln(out, styles.Warning.Render("required model missing (match: "+cfg.Model.Match+")"))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

// Personal.AI order the ending
