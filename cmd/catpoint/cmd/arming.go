package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/service/console"
)

var (
	// catDetected forces the cat detection flag before arming.
	catDetected bool

	// statusCmd prints the current state.
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show arming status, alarm status and sensors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return console.Status(cmd.Context(), withOutput(cmd))
		},
	}

	// armCmd arms the system.
	armCmd = &cobra.Command{
		Use:       "arm home|away",
		Short:     "Arm the system and reset all sensors.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"home", "away"},
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseArmingStatus(args[0])
			if err != nil {
				return err
			}

			return console.SetArmingStatus(cmd.Context(), withOutput(cmd), status, catDetected)
		},
	}

	// disarmCmd disarms the system.
	disarmCmd = &cobra.Command{
		Use:   "disarm",
		Short: "Disarm the system and clear the alarm.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return console.SetArmingStatus(cmd.Context(), withOutput(cmd), domain.Disarmed, false)
		},
	}
)

// withOutput returns console options writing to the command's output.
func withOutput(cmd *cobra.Command) *console.Options {
	opts := options()
	opts.Out = cmd.OutOrStdout()

	return opts
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	armCmd.Flags().BoolVar(&catDetected, "cat-detected", false, "treat the camera as showing a cat before arming")
}
