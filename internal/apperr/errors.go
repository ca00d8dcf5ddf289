// Package apperr defines the error taxonomy shared by the pipeline and CLI.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks fatal problems detected before processing starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks filesystem failures scoped to a single file.
	ErrIO = errors.New("io error")
	// ErrTranscode marks a codec tool failure for a single file.
	ErrTranscode = errors.New("transcode error")
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Configuration is shorthand for Wrap(ErrConfiguration, ...) without a component.
func Configuration(message string, err error) error {
	return Wrap(ErrConfiguration, "", "", message, err)
}

// Kind returns a short label for the marker carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTranscode):
		return "transcode"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
