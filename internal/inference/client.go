package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hockeytrainer/videoclient/internal/config"
)

// Prober defines the interface for the advisory health check.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Uploader defines the interface for sending a video to the service.
// This interface is implemented by *Client and can be used for testing.
type Uploader interface {
	Prepare(filePath string) (UploadRequest, error)
	Send(ctx context.Context, req UploadRequest) (*UploadResponse, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ Prober   = (*Client)(nil)
	_ Uploader = (*Client)(nil)
)

// Client talks to the inference HTTP service.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	healthTimeout time.Duration
	userAgent     string
	logger        *zap.Logger
}

// Options tune a Client. Zero values use the defaults.
type Options struct {
	UploadTimeout time.Duration
	HealthTimeout time.Duration
	Logger        *zap.Logger
}

const (
	HealthPath       = "/health"
	UploadPath       = "/infer/video"
	FileField        = "file"
	VideoContentType = "video/mp4"
)

// ErrInvalidBaseURL wraps every reason NewClient rejects a base URL.
var ErrInvalidBaseURL = errors.New("invalid base url")

// Version is reported in the User-Agent header.
var Version = "0.1"

// NewClient builds a Client for the service rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	uploadTimeout := opts.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = config.DefaultUploadTimeout
	}
	healthTimeout := opts.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = config.DefaultHealthTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: uploadTimeout,
		},
		healthTimeout: healthTimeout,
		userAgent:     "htclient/" + Version,
		logger:        logger.With(zap.String("service", base.String())),
	}, nil
}

// BaseURL returns the normalized service root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// UploadURL returns the absolute upload endpoint.
func (c *Client) UploadURL() string {
	return c.endpoint(UploadPath)
}

// Probe issues GET /health. Any failure yields false; the reason is only logged.
func (c *Client) Probe(ctx context.Context) bool {
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	target := c.endpoint(HealthPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Warn("health request not built", zap.Error(err))
		return false
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("health probe failed", zap.String("url", target), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	healthy := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	c.logger.Debug("health probe", zap.Int("status", resp.StatusCode), zap.Bool("healthy", healthy))
	return healthy
}

// Prepare checks that filePath is a readable regular file and describes the upload.
func (c *Client) Prepare(filePath string) (UploadRequest, error) {
	if c == nil {
		return UploadRequest{}, fmt.Errorf("client is nil")
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return UploadRequest{}, fmt.Errorf("stat video: %w", err)
	}
	if !info.Mode().IsRegular() {
		return UploadRequest{}, fmt.Errorf("video %s is not a regular file", filePath)
	}
	return UploadRequest{
		URL:         c.UploadURL(),
		FilePath:    filePath,
		FileName:    filepath.Base(filePath),
		ContentType: VideoContentType,
		Size:        info.Size(),
	}, nil
}

// Upload prepares and sends filePath in one step.
func (c *Client) Upload(ctx context.Context, filePath string) (*UploadResponse, error) {
	req, err := c.Prepare(filePath)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, req)
}

// Send streams the video as a single multipart part and returns the status and
// body verbatim. Only connection-level failures are returned as errors.
func (c *Client) Send(ctx context.Context, upload UploadRequest) (*UploadResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	file, err := os.Open(upload.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer func() { _ = file.Close() }()

	head, tail, contentType, err := multipartFrame(upload.FileName, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	body := struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), file, bytes.NewReader(tail)), file}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, upload.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(head)) + upload.Size + int64(len(tail))
	req.Header.Set("Content-Type", contentType)
	requestID := c.setHeaders(req)

	logger := c.logger.With(zap.String("request_id", requestID))
	logger.Debug("upload started",
		zap.String("url", upload.URL),
		zap.String("file", upload.FileName),
		zap.Int64("bytes", upload.Size),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("upload failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return nil, &TransportError{Op: "upload", URL: upload.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("reading upload response failed", zap.Error(err))
		return nil, &TransportError{Op: "read response", URL: upload.URL, Err: err}
	}

	elapsed := time.Since(started)
	logger.Debug("upload finished", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", elapsed))
	return &UploadResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(raw),
		RequestID:  requestID,
		Elapsed:    elapsed,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) string {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	return requestID
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	return u.String()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartFrame renders everything around the file bytes of a one-part
// multipart body, so the file itself can be streamed from disk with a known
// Content-Length.
func multipartFrame(fileName, contentType string) (head, tail []byte, formType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FileField, quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", contentType)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, nil, "", err
	}
	headLen := buf.Len()
	if err := mw.Close(); err != nil {
		return nil, nil, "", err
	}
	all := buf.Bytes()
	head = append([]byte(nil), all[:headLen]...)
	tail = append([]byte(nil), all[headLen:]...)
	return head, tail, mw.FormDataContentType(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = config.DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidBaseURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: unsupported scheme %q", ErrInvalidBaseURL, raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidBaseURL, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
