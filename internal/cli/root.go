package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/turtacn/Lulo/internal/config"
	"github.com/turtacn/Lulo/internal/monitor"
	"github.com/turtacn/Lulo/pkg/logger"
	"github.com/turtacn/Lulo/pkg/protocol"
)

const defaultConfigFile = "lulo.yaml"

var (
	cfgFile  string
	logLevel string

	cfg       *protocol.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "lulo",
	Short:         "Lulo: local model runtime supervisor",
	Long:          "Lulo finds, starts and provisions the local Ollama runtime and the MedGemma model the application depends on.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// An explicit --config must exist; the default file is optional.
		loaded, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Observability.LogLevel = logLevel
		}
		cfg = loaded

		logCloser = logger.Configure(logger.Options{
			Level:  cfg.Observability.LogLevel,
			Format: cfg.Observability.LogFormat,
			File:   cfg.Observability.LogFile,
		})
		return monitor.InitMetrics(cfg.Observability.MetricsAddr)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the command line and reports the error it printed, if any.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), styles.Error.Render("Error: "+err.Error()))
	}
	return err
}

// Personal.AI order the ending
