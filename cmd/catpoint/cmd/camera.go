package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/service/console"
)

var (
	// imageCmd classifies a single image.
	imageCmd = &cobra.Command{
		Use:   "image FILE",
		Short: "Check one camera image for a cat.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.ProcessImage(cmd.Context(), withOutput(cmd), args[0])
		},
	}

	// watchCmd runs the camera feed.
	watchCmd = &cobra.Command{
		Use:   "watch [camera-dir]",
		Short: "Watch a directory and check every new image for a cat.",
		Long: `Watches the camera directory and processes every new PNG, JPEG or GIF file.

The directory can be provided as argument or taken from the camera_dir setting.
The command runs until interrupted with Ctrl+C or SIGTERM.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signalContext()
			defer stop()

			var dir string
			if len(args) > 0 {
				dir = args[0]
			}

			return console.Watch(ctx, withOutput(cmd), dir)
		},
	}
)
