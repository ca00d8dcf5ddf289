package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"vidshrink/internal/config"
	"vidshrink/internal/fileutil"
	"vidshrink/internal/logging"
	"vidshrink/internal/media/ffprobe"
)

const (
	stderrTailLines = 20
	partialSuffix   = ".partial"
)

// muxers maps container formats to ffmpeg's -f names.
var muxers = map[string]string{
	"mp4": "mp4",
	"mkv": "matroska",
	"mov": "mov",
}

// FFmpeg transcodes by shelling out to ffmpeg, probing frame size with ffprobe first.
type FFmpeg struct {
	FFmpegBinary  string
	FFprobeBinary string
	// Retries is the number of extra attempts for retryable failures.
	Retries int
	Logger  *slog.Logger
}

// NewFFmpeg builds an ffmpeg transcoder from configuration.
func NewFFmpeg(cfg *config.Config, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		FFmpegBinary:  cfg.Transcode.FFmpegBinary,
		FFprobeBinary: cfg.Transcode.FFprobeBinary,
		Retries:       cfg.Transcode.Retries,
		Logger:        logging.NewComponentLogger(logger, "transcode"),
	}
}

// Transcode implements Transcoder.
func (f *FFmpeg) Transcode(ctx context.Context, src, dest string, opts Options) (Sizes, error) {
	logger := f.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	fail := func(reason Reason, stderr string, err error) (Sizes, error) {
		return Sizes{}, &Error{Source: src, Dest: dest, Reason: reason, Stderr: stderr, Err: err}
	}

	srcSize, err := fileutil.FileSize(src)
	if err != nil {
		return fail(ReasonToolFailure, "", err)
	}

	probe, err := ffprobe.Inspect(ctx, f.FFprobeBinary, src)
	if err != nil {
		return fail(Classify(ctx, err.Error(), err), "", err)
	}
	width, height, err := probe.Dimensions()
	if err != nil {
		return fail(ReasonCorruptInput, "", err)
	}
	outW, outH := FitLongSide(width, height, opts.MaxDimension)

	partial := PartialPath(dest)
	args := BuildArgs(src, partial, outW, outH, opts)
	attempts := f.Retries + 1
	for attempt := 1; ; attempt++ {
		logger.Debug("ffmpeg command",
			logging.String("binary", f.binary()),
			logging.String("args", strings.Join(args, " ")),
			logging.Int("attempt", attempt),
		)
		stderr, runErr := f.run(ctx, args)
		if runErr == nil {
			break
		}
		_ = fileutil.RemoveIfExists(partial)
		terr := &Error{Source: src, Dest: dest, Reason: Classify(ctx, stderr, runErr), Stderr: stderr, Err: runErr}
		if attempt >= attempts || !terr.Retryable() {
			return Sizes{}, terr
		}
		logger.Info("retrying transcode",
			logging.String("source", src),
			logging.String("reason", string(terr.Reason)),
			logging.Int("attempt", attempt+1),
			logging.Int("max_attempts", attempts),
		)
	}

	if err := os.Rename(partial, dest); err != nil {
		_ = fileutil.RemoveIfExists(partial)
		return fail(ReasonToolFailure, "", fmt.Errorf("move output into place: %w", err))
	}
	destSize, err := fileutil.FileSize(dest)
	if err != nil {
		return fail(ReasonToolFailure, "", err)
	}
	logger.Debug("transcode finished",
		logging.String("source", src),
		logging.String("scale", fmt.Sprintf("%dx%d->%dx%d", width, height, outW, outH)),
		logging.Int64("source_bytes", srcSize),
		logging.Int64("dest_bytes", destSize),
	)
	return Sizes{Source: srcSize, Dest: destSize}, nil
}

func (f *FFmpeg) binary() string {
	if b := strings.TrimSpace(f.FFmpegBinary); b != "" {
		return b
	}
	return "ffmpeg"
}

func (f *FFmpeg) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, f.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = errors.Join(ctx.Err(), err)
	}
	return tail(stderr.String(), stderrTailLines), err
}

// IsPartial reports whether name is a file written by PartialPath.
func IsPartial(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, partialSuffix)
}

// PartialPath is the hidden sibling file ffmpeg writes before the rename into dest.
func PartialPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+partialSuffix)
}

// BuildArgs returns the ffmpeg argument list for one encode.
func BuildArgs(src, out string, width, height int, opts Options) []string {
	filters := make([]string, 0, 2)
	if opts.DenoiseFilter != "" {
		filters = append(filters, opts.DenoiseFilter)
	}
	filters = append(filters, fmt.Sprintf("scale=%d:%d", width, height))

	args := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-i", src,
		"-map_metadata", "0",
		"-vf", strings.Join(filters, ","),
		"-c:v", opts.VideoCodec,
		"-crf", strconv.Itoa(opts.Quality),
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:a", opts.AudioCodec)

	format := strings.ToLower(opts.Format)
	if format == "mp4" || format == "mov" {
		args = append(args, "-movflags", "+faststart")
	}
	muxer, ok := muxers[format]
	if !ok {
		muxer = format
	}
	return append(args, "-f", muxer, out)
}

func tail(s string, lines int) string {
	s = strings.TrimRight(s, "\n")
	parts := strings.Split(s, "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}
