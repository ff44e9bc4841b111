package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/turtacn/Lulo/internal/installer"
)

var (
	pullModel string
	pullAlias string
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the model and register its local alias",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bin, err := newLocator(cfg).Locate(ctx)
		if err != nil {
			return err
		}
		ref, alias := cfg.Model.Ref, cfg.Model.Alias
		if pullModel != "" {
			ref = pullModel
		}
		if pullAlias != "" {
			alias = pullAlias
		}

		out := cmd.OutOrStdout()
		if err := installer.New(bin.Path, alias, lineWriter(out)).Pull(ctx, ref); err != nil {
			return err
		}
		fmt.Fprintln(out, styles.Title.Render("Model ready: "+alias))
		return nil
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullModel, "model", "", "model reference (defaults to model.ref)")
	pullCmd.Flags().StringVar(&pullAlias, "alias", "", "local alias (defaults to model.alias)")
}

// Personal.AI order the ending
