package transcode

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"vidshrink/internal/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Reason
	}{
		{name: "oom", stderr: "[libx264 @ 0x1] malloc of size 1234 failed\nCannot allocate memory", want: ReasonOutOfMemory},
		{name: "unknown encoder", stderr: "Unknown encoder 'libx265'", want: ReasonUnsupportedCodec},
		{name: "missing decoder", stderr: "Decoder (codec prores) not found for input stream #0:0", want: ReasonUnsupportedCodec},
		{name: "corrupt", stderr: "clip.mp4: Invalid data found when processing input", want: ReasonCorruptInput},
		{name: "moov", stderr: "moov atom not found", want: ReasonCorruptInput},
		{name: "other", stderr: "Conversion failed!", want: ReasonToolFailure},
		{name: "empty", stderr: "", want: ReasonToolFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(context.Background(), tt.stderr, errors.New("exit status 1")); got != tt.want {
				t.Fatalf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := Classify(ctx, "Invalid data found when processing input", errors.New("signal: killed")); got != ReasonCancelled {
		t.Fatalf("Classify = %s, want cancelled", got)
	}
	if got := Classify(context.Background(), "", context.Canceled); got != ReasonCancelled {
		t.Fatalf("Classify(context.Canceled) = %s, want cancelled", got)
	}
}

func TestErrorMatchesMarkerAndCause(t *testing.T) {
	cause := &exec.ExitError{}
	err := error(&Error{Source: "a.mp4", Dest: "b.mp4", Reason: ReasonCorruptInput, Stderr: "line one\nmoov atom not found\n", Err: cause})

	if !errors.Is(err, apperr.ErrTranscode) {
		t.Fatal("expected transcode marker")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("expected cause to be reachable")
	}
	var terr *Error
	if !errors.As(err, &terr) || terr.Reason != ReasonCorruptInput {
		t.Fatalf("expected *Error with corrupt_input, got %#v", terr)
	}
	if !strings.Contains(err.Error(), "(moov atom not found)") {
		t.Fatalf("expected last stderr line in message, got %q", err.Error())
	}
	if apperr.Kind(err) != "transcode" {
		t.Fatalf("Kind = %q", apperr.Kind(err))
	}
}

func TestRetryable(t *testing.T) {
	for reason, want := range map[Reason]bool{
		ReasonOutOfMemory:      true,
		ReasonToolFailure:      true,
		ReasonUnsupportedCodec: false,
		ReasonCorruptInput:     false,
		ReasonCancelled:        false,
	} {
		if got := (&Error{Reason: reason}).Retryable(); got != want {
			t.Errorf("Retryable(%s) = %v, want %v", reason, got, want)
		}
	}
}
