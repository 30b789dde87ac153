package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/console"
	"github.com/oshokin/catpoint/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// stateFile overrides the configured state file.
	stateFile string

	// rootCmd represents the base command of the security monitor.
	rootCmd = &cobra.Command{
		Use:   "catpoint",
		Short: "Home security monitor with cat-aware alarm decisions.",
		Long: `Controls a home security system from the command line.

The system can be armed (home or away) or disarmed. Door, window and motion
sensors raise a pending alarm when triggered while armed, and a full alarm on
the next trigger. Camera images are checked for cats: a cat seen while armed
at home raises the alarm, otherwise a quiet house clears it.

State is persisted to a YAML file between invocations.`,
		SilenceUsage: true,
	}
)

// Execute runs the catpoint CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options collects the persistent flags into console options.
func options() *console.Options {
	return &console.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		StateFile:  stateFile,
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&stateFile, "state-file", "s", "", "path to the state file override")

	rootCmd.AddCommand(statusCmd, armCmd, disarmCmd, sensorCmd, imageCmd, watchCmd)
}
