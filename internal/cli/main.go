package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "timelapse -l <seconds> -i <input> -o <output>",
		Short:        "Squeeze a video into a fixed-length timelapse",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	root.SilenceErrors = true

	// Visible flags
	root.Flags().Float64P("length", "l", 0, "Length of the final timelapse (in seconds)")
	root.Flags().StringP("input", "i", "", "Path to the input video")
	root.Flags().StringP("output", "o", "", "Path to write the output video")
	root.Flags().Bool("json", false, "Print the run report as JSON")
	root.Flags().BoolP("quiet", "q", false, "Only log warnings and errors")
	root.Flags().BoolP("verbose", "v", false, "Log ffmpeg command lines")
	_ = root.MarkFlagRequired("length")
	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("output")

	// Hidden tuning flag (internal)
	root.Flags().Duration("timeout", 0, "Overall deadline, 0 disables it")
	_ = root.Flags().MarkHidden("timeout")

	return root
}
