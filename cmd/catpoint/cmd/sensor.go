package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/service/console"
)

var (
	// sensorCmd groups sensor management commands.
	sensorCmd = &cobra.Command{
		Use:   "sensor",
		Short: "Manage door, window and motion sensors.",
	}

	sensorAddCmd = &cobra.Command{
		Use:   "add NAME door|window|motion",
		Short: "Register a new inactive sensor.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.AddSensor(cmd.Context(), withOutput(cmd), args[0], args[1])
		},
	}

	sensorRemoveCmd = &cobra.Command{
		Use:   "remove NAME door|window|motion",
		Short: "Forget a sensor.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.RemoveSensor(cmd.Context(), withOutput(cmd), args[0], args[1])
		},
	}

	sensorActivateCmd = &cobra.Command{
		Use:   "activate NAME door|window|motion",
		Short: "Report a sensor trigger.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.ChangeSensorActivation(cmd.Context(), withOutput(cmd), args[0], args[1], true)
		},
	}

	sensorDeactivateCmd = &cobra.Command{
		Use:   "deactivate NAME door|window|motion",
		Short: "Report that a sensor went quiet.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.ChangeSensorActivation(cmd.Context(), withOutput(cmd), args[0], args[1], false)
		},
	}

	sensorListCmd = &cobra.Command{
		Use:   "list",
		Short: "List sensors with the current status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return console.Status(cmd.Context(), withOutput(cmd))
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	sensorCmd.AddCommand(sensorAddCmd, sensorRemoveCmd, sensorActivateCmd, sensorDeactivateCmd, sensorListCmd)
}
