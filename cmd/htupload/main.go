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

	opts := app.Options{Out: os.Stdout, Err: os.Stderr}
	var runErr error

	cmd := &cobra.Command{
		Use:   "htupload <serverUrl> <videoFilePath>",
		Short: "Upload a video to an inference service without prompting",
		Long: `htupload uploads one video to the given inference service and prints the analysis.
It never prompts, which makes it suitable for scripts. Exit codes:
  0 success, 1 other failure, 2 invalid input, 3 connection error,
  4 error status from the service, 5 response is not JSON.`,
		Version:       inference.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument checks happen in RunDirect so missing arguments are
			// reported like any other invalid input.
			opts.Args = args
			runErr = app.RunDirect(cmd.Context(), opts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "TOML config file (optional)")
	flags.DurationVar(&opts.UploadTimeout, "timeout", 0, "upload timeout (default 5m)")
	flags.StringVar(&opts.Theme, "theme", "", "console theme: Nightfox, Kanagawa, Slate or Plain")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log request diagnostics to stderr")

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "htupload: %v\n", err)
		return app.ExitInvalidInput
	}

	code := app.ExitCode(runErr)
	if code == app.ExitFailure {
		fmt.Fprintf(os.Stderr, "htupload: %v\n", runErr)
	}
	return code
}
