package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hockeytrainer/videoclient/internal/config"
	"github.com/hockeytrainer/videoclient/internal/inferencetest"
)

func writeVideo(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Repeat("v", size)), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != config.DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), config.DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://example.com:1234" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	for _, bad := range []string{"ftp://example.com", "http://"} {
		if _, err := parseBaseURL(bad); !errors.Is(err, ErrInvalidBaseURL) {
			t.Fatalf("parseBaseURL(%q) error = %v, want ErrInvalidBaseURL", bad, err)
		}
	}
}

func TestUploadURL_TrailingSlashesNormalized(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://host", "http://host/infer/video"},
		{"http://host/", "http://host/infer/video"},
		{"http://host//", "http://host/infer/video"},
		{"http://host:8000/api/", "http://host:8000/api/infer/video"},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.base, Options{})
		if err != nil {
			t.Fatalf("NewClient(%q) returned error: %v", tt.base, err)
		}
		if got := c.UploadURL(); got != tt.want {
			t.Fatalf("UploadURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestUpload_SendsSingleVideoPart(t *testing.T) {
	t.Parallel()

	srv := inferencetest.NewServer()
	t.Cleanup(srv.Close)

	// Extension is deliberately not .mp4: the declared type is fixed.
	path := writeVideo(t, `my "clip".mov`, 4096)

	c, err := NewClient(srv.URL+"/", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	resp, err := c.Upload(ctx, path)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !resp.Success() || resp.StatusCode != http.StatusOK {
		t.Fatalf("Upload status = %d, want 200", resp.StatusCode)
	}
	if resp.Body != inferencetest.SampleResult {
		t.Fatalf("Upload body = %q, want sample result", resp.Body)
	}

	uploads := srv.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("server saw %d uploads, want 1", len(uploads))
	}
	got := uploads[0]
	if got.Path != UploadPath {
		t.Fatalf("path = %q, want %q", got.Path, UploadPath)
	}
	if got.Parts != 1 || got.FieldName != FileField {
		t.Fatalf("parts = %d field = %q, want 1 part named %q", got.Parts, got.FieldName, FileField)
	}
	if got.FileName != `my "clip".mov` {
		t.Fatalf("filename = %q, want base name", got.FileName)
	}
	if got.ContentType != VideoContentType {
		t.Fatalf("content type = %q, want %q", got.ContentType, VideoContentType)
	}
	if got.Size != 4096 {
		t.Fatalf("size = %d, want 4096", got.Size)
	}
	if got.RequestID == "" || got.RequestID != resp.RequestID {
		t.Fatalf("request id = %q, want %q", got.RequestID, resp.RequestID)
	}
	if !strings.HasPrefix(got.UserAgent, "htclient/") {
		t.Fatalf("User-Agent = %q, want htclient/*", got.UserAgent)
	}
}

func TestUpload_ContentLengthMatchesBody(t *testing.T) {
	t.Parallel()

	var gotLength int64
	var readBytes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
		buf := make([]byte, 32<<10)
		for {
			n, err := r.Body.Read(buf)
			readBytes += n
			if err != nil {
				break
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Upload(context.Background(), writeVideo(t, "clip.mp4", 100_000)); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if gotLength <= 100_000 || int64(readBytes) != gotLength {
		t.Fatalf("ContentLength = %d, read %d bytes; want equal and larger than the file", gotLength, readBytes)
	}
}

func TestUpload_ErrorStatusIsNotTransportError(t *testing.T) {
	t.Parallel()

	srv := inferencetest.NewServer()
	t.Cleanup(srv.Close)
	srv.SetUploadResponse(http.StatusInternalServerError, `{"detail":"Error processing video: boom"}`)

	c, err := NewClient(srv.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	resp, err := c.Upload(context.Background(), writeVideo(t, "clip.mp4", 10))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if resp.Success() {
		t.Fatalf("Success() = true for status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "boom") {
		t.Fatalf("Body = %q, want error body preserved", resp.Body)
	}
}

func TestUpload_ConnectionRefusedIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	resp, err := c.Upload(context.Background(), writeVideo(t, "clip.mp4", 10))
	if resp != nil {
		t.Fatalf("Upload response = %#v, want nil", resp)
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Upload error = %v, want *TransportError", err)
	}
	if terr.Op != "upload" || terr.URL != addr+UploadPath {
		t.Fatalf("TransportError = %+v, want upload of %s", terr, addr+UploadPath)
	}
}

func TestUpload_TimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, Options{UploadTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Upload(context.Background(), writeVideo(t, "clip.mp4", 10))
	var terr *TransportError
	if !errors.As(err, &terr) || !terr.Timeout() {
		t.Fatalf("Upload error = %v, want timeout TransportError", err)
	}
}

func TestPrepare_RejectsMissingAndDirectories(t *testing.T) {
	c, err := NewClient("", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Prepare(filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Fatalf("Prepare(missing) returned nil error")
	}
	if _, err := c.Prepare(t.TempDir()); err == nil {
		t.Fatalf("Prepare(dir) returned nil error")
	}

	path := writeVideo(t, "clip.mp4", 2*1024*1024)
	req, err := c.Prepare(path)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if req.FileName != "clip.mp4" || req.ContentType != VideoContentType || req.SizeMB() != 2 {
		t.Fatalf("Prepare = %+v, want clip.mp4 video/mp4 2MB", req)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	srv := inferencetest.NewServer()
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, Options{HealthTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if !c.Probe(context.Background()) {
		t.Fatalf("Probe = false, want true")
	}

	srv.SetHealthStatus(http.StatusServiceUnavailable)
	if c.Probe(context.Background()) {
		t.Fatalf("Probe = true for 503, want false")
	}
	if srv.HealthCalls() != 2 {
		t.Fatalf("health calls = %d, want 2", srv.HealthCalls())
	}
}

func TestProbe_UnreachableAndSlowServices(t *testing.T) {
	t.Parallel()

	c, err := NewClient("127.0.0.1:1", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.Probe(context.Background()) {
		t.Fatalf("Probe = true for unreachable service")
	}

	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)
	t.Cleanup(func() { close(release) })

	c, err = NewClient(slow.URL, Options{HealthTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	started := time.Now()
	if c.Probe(context.Background()) {
		t.Fatalf("Probe = true for stalled service")
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("Probe took %v, want it bounded by the health timeout", elapsed)
	}
}
