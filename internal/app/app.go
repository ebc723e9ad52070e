package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hockeytrainer/videoclient/internal/config"
	"github.com/hockeytrainer/videoclient/internal/console"
	"github.com/hockeytrainer/videoclient/internal/inference"
	"github.com/hockeytrainer/videoclient/internal/input"
	"github.com/hockeytrainer/videoclient/internal/logging"
	"github.com/hockeytrainer/videoclient/internal/render"
)

// Options configure one client run. Zero values fall back to the config file
// (when ConfigPath is set) and then to the built-in defaults.
type Options struct {
	Args       []string // positional arguments as given on the command line
	ConfigPath string

	BaseURL       string
	UploadTimeout time.Duration
	HealthTimeout time.Duration
	Theme         string
	Verbose       bool

	SkipHealth bool // interactive variant only
	Pause      bool // interactive variant only: wait for Enter before returning

	In       io.Reader
	Out      io.Writer
	Err      io.Writer
	Prompter input.Prompter // nil picks one for In
}

const (
	bannerTitle      = "Hockey Trainer - Video Upload Client"
	interactiveUsage = "Usage: htclient [path/to/video.mp4]"
	directUsage      = "Usage: htupload <serverUrl> <videoFilePath>"
)

// RunInteractive resolves the video from Args or a prompt, probes the
// service's health, uploads and prints the analysis.
func RunInteractive(ctx context.Context, opts Options) error {
	s, err := newSession(opts)
	if err != nil {
		return reportSetup(opts, err, interactiveUsage)
	}
	defer s.close()
	if opts.Pause {
		defer s.pause()
	}

	s.out.Heading(bannerTitle, '=')
	s.out.Blank()

	path, err := input.Resolve(opts.Args, s.prompter(opts))
	if err != nil {
		s.invalidInput(err, interactiveUsage)
		return err
	}
	return s.run(ctx, path, !opts.SkipHealth)
}

// RunDirect expects Args to be exactly <serverUrl> <videoFilePath>. It never
// prompts and skips the health probe.
func RunDirect(ctx context.Context, opts Options) error {
	if len(opts.Args) < 2 || strings.TrimSpace(opts.Args[0]) == "" || opts.Args[1] == "" {
		err := fmt.Errorf("%w: server url and video path are required", input.ErrInvalidInput)
		return reportSetup(opts, err, directUsage)
	}
	opts.BaseURL = opts.Args[0]

	s, err := newSession(opts)
	if err != nil {
		return reportSetup(opts, err, directUsage)
	}
	defer s.close()

	path, err := input.Resolve(opts.Args[1:2], nil)
	if err != nil {
		s.invalidInput(err, directUsage)
		return err
	}
	return s.run(ctx, path, false)
}

// reportSetup prints usage for errors caused by bad arguments. Other setup
// failures are left to the caller, which reports them on stderr.
func reportSetup(opts Options, err error, usage string) error {
	if !errors.Is(err, input.ErrInvalidInput) {
		return err
	}
	p := console.NewPrinter(opts.Out, console.GetTheme(opts.Theme))
	p.Failure("Error: %v", err)
	p.Println(usage)
	return err
}

// session holds what both variants share for the length of one run.
type session struct {
	out    *console.Printer
	client *inference.Client
	logger *zap.Logger
	in     io.Reader
	lines  *input.LinePrompter
}

func newSession(opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if opts.UploadTimeout > 0 {
		cfg.UploadTimeout = opts.UploadTimeout
	}
	if opts.HealthTimeout > 0 {
		cfg.HealthTimeout = opts.HealthTimeout
	}
	if v := strings.TrimSpace(opts.Theme); v != "" {
		cfg.Theme = v
	}

	logger := logging.New(opts.Err, opts.Verbose)
	if !console.HasTheme(cfg.Theme) {
		logger.Warn("unknown theme, using default",
			zap.String("theme", cfg.Theme),
			zap.Strings("available", console.ThemeNames()))
	}

	client, err := inference.NewClient(cfg.BaseURL, inference.Options{
		UploadTimeout: cfg.UploadTimeout,
		HealthTimeout: cfg.HealthTimeout,
		Logger:        logger,
	})
	if err != nil {
		_ = logger.Sync()
		if errors.Is(err, inference.ErrInvalidBaseURL) {
			return nil, fmt.Errorf("%w: %w", input.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("init inference client: %w", err)
	}
	logger.Debug("client ready",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("upload_timeout", cfg.UploadTimeout),
		zap.Duration("health_timeout", cfg.HealthTimeout))

	return &session{
		out:    console.NewPrinter(opts.Out, console.GetTheme(cfg.Theme)),
		client: client,
		logger: logger,
		in:     opts.In,
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func (s *session) prompter(opts Options) input.Prompter {
	if opts.Prompter != nil {
		return opts.Prompter
	}
	if f, ok := opts.In.(*os.File); ok {
		p := input.NewPrompter(f, opts.Out)
		if lp, ok := p.(*input.LinePrompter); ok {
			s.lines = lp
		}
		return p
	}
	if opts.In == nil {
		return nil
	}
	s.lines = &input.LinePrompter{In: opts.In, Out: opts.Out}
	return s.lines
}

func (s *session) invalidInput(err error, usage string) {
	s.logger.Debug("invalid input", zap.Error(err))
	msg := "Video file not found."
	if errors.Is(err, input.ErrPromptCancelled) {
		msg = "No video file selected."
	}
	s.out.Failure("Error: %s", msg)
	s.out.Muted("%v", err)
	s.out.Println(usage)
}

// run is the shared linear flow: optional probe, upload, render.
func (s *session) run(ctx context.Context, path string, probe bool) error {
	s.out.Field("Video file", path)
	s.out.Field("API endpoint", s.client.UploadURL())
	s.out.Blank()

	if probe {
		s.out.Info("Connecting to API...")
		if s.client.Probe(ctx) {
			s.out.Success("API is healthy")
		} else {
			s.out.Warning("API health check failed. Proceeding anyway...")
		}
		s.out.Blank()
	}

	req, err := s.client.Prepare(path)
	if err != nil {
		s.out.Failure("Error: %v", err)
		return err
	}
	s.out.Info("Uploading video...")
	s.out.Field("File size", fmt.Sprintf("%.2f MB", req.SizeMB()))

	resp, err := s.client.Send(ctx, req)
	if err != nil {
		var transportErr *inference.TransportError
		if errors.As(err, &transportErr) {
			s.connectionHint(transportErr)
		} else {
			s.out.Failure("Error: %v", err)
		}
		return err
	}

	s.logger.Debug("upload answered",
		zap.String("request_id", resp.RequestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", resp.Elapsed))

	if !resp.Success() {
		s.out.Failure("Upload failed: %s", resp.Status)
		s.out.Field("Error details", resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status, Body: resp.Body}
	}

	s.out.Success("Upload successful")
	s.out.Blank()
	if err := render.Render(s.out, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (s *session) connectionHint(err *inference.TransportError) {
	s.out.Failure("Connection error: %v", err.Err)
	if err.Timeout() {
		s.out.Muted("The request timed out. Large videos may need a longer --timeout.")
	}
	s.out.Blank()
	s.out.Println("Make sure the API service is running:")
	s.out.Println("  cd services/api")
	s.out.Println("  python main.py")
}

// pause waits for Enter. It reads through the line prompter when one was used,
// since that prompter may already hold the buffered line.
func (s *session) pause() {
	if s.lines == nil {
		if s.in == nil {
			return
		}
		s.lines = &input.LinePrompter{In: s.in}
	}
	s.out.Blank()
	s.out.Muted("Press Enter to exit...")
	_, _ = s.lines.ReadLine()
}
