// Package input resolves which video file a run should upload.
package input

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidInput marks a missing, empty or non-existent video path. Callers
// print usage and stop without touching the network.
var ErrInvalidInput = errors.New("invalid input")

// PromptLabel is shown when no path was passed on the command line.
const PromptLabel = "Enter video file path (or drag and drop file here): "

// Prompter asks the user for one line of input.
type Prompter interface {
	Prompt(label string) (string, error)
}

// Resolve returns the first positional argument verbatim when it is non-empty,
// otherwise the cleaned answer to a prompt. Either way the result must name an
// existing regular file.
func Resolve(args []string, p Prompter) (string, error) {
	var path string
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	} else {
		if p == nil {
			return "", fmt.Errorf("%w: no video path given", ErrInvalidInput)
		}
		answer, err := p.Prompt(PromptLabel)
		if err != nil {
			return "", fmt.Errorf("%w: read video path: %v", ErrInvalidInput, err)
		}
		path = Clean(answer)
	}

	if err := Validate(path); err != nil {
		return "", err
	}
	return path, nil
}

// Clean trims surrounding whitespace and then one single or double quote from
// each end, as left behind by drag-and-drop into a terminal. The quotes need
// not match.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if s != "" && isQuote(s[0]) {
		s = s[1:]
	}
	if s != "" && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}

// Validate checks that path names an existing regular file.
func Validate(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no video path given", ErrInvalidInput)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: video file not found: %s", ErrInvalidInput, path)
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidInput, path)
	}
	return nil
}
