package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/turtacn/Lulo/pkg/logger"
)

var (
	startYes        bool
	startNoDownload bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Prepare the runtime and model, then supervise until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		engine, err := newEngine(cfg, newConfirmer(startYes, startNoDownload), nil, lineWriter(out))
		if err != nil {
			return err
		}
		defer func() {
			if err := engine.Shutdown(); err != nil {
				logger.Log.Error("CLI: runtime shutdown failed", "err", err)
			}
		}()

		events, outcome := engine.RunStartupSequence(ctx)
		for ev := range events {
			renderEvent(out, ev)
		}
		o := <-outcome
		renderOutcome(out, o)
		if !o.Success {
			return fmt.Errorf("startup failed at %s (%s)", o.Stage, o.Reason)
		}

		fmt.Fprintln(out, styles.Muted.Render("Supervising the runtime. Press Ctrl+C to stop."))
		<-ctx.Done()
		logger.Log.Info("CLI: stop requested")
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVarP(&startYes, "yes", "y", false, "download a missing model without asking")
	startCmd.Flags().BoolVar(&startNoDownload, "no-download", false, "never download a missing model")
	startCmd.MarkFlagsMutuallyExclusive("yes", "no-download")
}

// Personal.AI order the ending
