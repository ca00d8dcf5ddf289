package transcode

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vidshrink/internal/apperr"
)

// Reason classifies why a transcode failed.
type Reason string

const (
	ReasonOutOfMemory      Reason = "out_of_memory"
	ReasonUnsupportedCodec Reason = "unsupported_codec"
	ReasonCorruptInput     Reason = "corrupt_input"
	ReasonToolFailure      Reason = "tool_failure"
	ReasonCancelled        Reason = "cancelled"
)

// Error reports a failed transcode of a single file. It matches
// apperr.ErrTranscode under errors.Is.
type Error struct {
	Source string
	Dest   string
	Reason Reason
	// Stderr holds the last lines the tool wrote to standard error.
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("transcode %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if line := lastLine(e.Stderr); line != "" {
		msg += " (" + line + ")"
	}
	return msg
}

// Unwrap exposes both the transcode marker and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrTranscode}
	}
	return []error{apperr.ErrTranscode, e.Err}
}

// Retryable reports whether another attempt could plausibly succeed.
func (e *Error) Retryable() bool {
	switch e.Reason {
	case ReasonOutOfMemory, ReasonToolFailure:
		return true
	default:
		return false
	}
}

var (
	reOutOfMemory = regexp.MustCompile(
		`(?i)cannot allocate memory|out of memory|Failed to allocate|malloc of size \d+ failed`)

	reUnsupportedCodec = regexp.MustCompile(
		`(?i)Unknown encoder|Decoder \(codec .*\) not found|` +
			`Could not find tag for codec|codec not currently supported in container|` +
			`Unsupported codec|Encoder not found|no decoder for`)

	reCorruptInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|moov atom not found|` +
			`could not find codec parameters|End of file|Invalid NAL unit size|` +
			`error while decoding|Header missing`)
)

// Classify maps a tool failure to a Reason. A cancelled context wins over stderr content.
func Classify(ctx context.Context, stderr string, err error) Reason {
	if ctx != nil && ctx.Err() != nil {
		return ReasonCancelled
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCancelled
	}
	switch {
	case reOutOfMemory.MatchString(stderr):
		return ReasonOutOfMemory
	case reUnsupportedCodec.MatchString(stderr):
		return ReasonUnsupportedCodec
	case reCorruptInput.MatchString(stderr):
		return ReasonCorruptInput
	default:
		return ReasonToolFailure
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
