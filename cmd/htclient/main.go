package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hockeytrainer/videoclient/internal/app"
	"github.com/hockeytrainer/videoclient/internal/inference"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	var runErr error

	cmd := &cobra.Command{
		Use:   "htclient [videoPath]",
		Short: "Upload a video to the Hockey Trainer inference service",
		Long: `htclient uploads one video to the inference service and prints the analysis.
When videoPath is omitted it asks for one; dragging a file into the terminal works.`,
		Version:       inference.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Args = args
			runErr = app.RunInteractive(cmd.Context(), opts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "TOML config file (optional)")
	flags.StringVarP(&opts.BaseURL, "server", "s", "", "inference service base URL (default http://localhost:8000)")
	flags.DurationVar(&opts.UploadTimeout, "timeout", 0, "upload timeout (default 5m)")
	flags.DurationVar(&opts.HealthTimeout, "health-timeout", 0, "health check timeout (default 5s)")
	flags.StringVar(&opts.Theme, "theme", "", "console theme: Nightfox, Kanagawa, Slate or Plain")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log request diagnostics to stderr")
	flags.BoolVar(&opts.SkipHealth, "no-health", false, "skip the health check")
	flags.BoolVar(&opts.Pause, "pause", false, "wait for Enter before exiting")

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "htclient: %v\n", err)
		return app.ExitInvalidInput
	}

	code := app.ExitCode(runErr)
	if code == app.ExitFailure {
		fmt.Fprintf(os.Stderr, "htclient: %v\n", runErr)
	}
	return code
}
