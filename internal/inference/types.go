package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// UploadRequest describes one video upload. It is built by Prepare once the
// file has been checked and is consumed by Send.
type UploadRequest struct {
	URL         string
	FilePath    string
	FileName    string
	ContentType string
	Size        int64
}

// SizeMB reports the file size in mebibytes.
func (r UploadRequest) SizeMB() float64 {
	return float64(r.Size) / 1024.0 / 1024.0
}

// UploadResponse is the uninterpreted reply to an upload.
type UploadResponse struct {
	StatusCode int
	Status     string
	Body       string
	RequestID  string
	Elapsed    time.Duration
}

// Success reports whether the service answered with a 2xx status.
func (r *UploadResponse) Success() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// TransportError reports a failure to reach the service or to read its reply:
// refused connections, DNS failures and timeouts. HTTP error statuses are not
// transport errors.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
