package app

import (
	"errors"
	"fmt"

	"github.com/hockeytrainer/videoclient/internal/inference"
	"github.com/hockeytrainer/videoclient/internal/input"
)

// ErrMalformedResponse marks a successful upload whose body is not JSON. The
// body has already been printed verbatim when this is returned.
var ErrMalformedResponse = errors.New("malformed response")

// UpstreamError reports a non-2xx reply from the upload endpoint.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upload returned status %s", e.Status)
}

// Process exit codes.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitInvalidInput      = 2
	ExitTransport         = 3
	ExitUpstream          = 4
	ExitMalformedResponse = 5
)

// ExitCode maps a Run error to the process exit code. Every code other than
// ExitFailure belongs to an error that has already been reported on stdout.
func ExitCode(err error) int {
	var (
		transportErr *inference.TransportError
		upstreamErr  *UpstreamError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, input.ErrInvalidInput):
		return ExitInvalidInput
	case errors.As(err, &transportErr):
		return ExitTransport
	case errors.As(err, &upstreamErr):
		return ExitUpstream
	case errors.Is(err, ErrMalformedResponse):
		return ExitMalformedResponse
	default:
		return ExitFailure
	}
}
