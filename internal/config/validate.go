package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedFormats lists the output containers the transcoder can produce.
var SupportedFormats = []string{"mp4", "mkv", "mov"}

// Validate ensures the configuration is usable. Source and destination roots
// are checked separately by ValidateRun so that config utilities work without them.
func (c *Config) Validate() error {
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateRun checks the settings that only a processing run needs.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Paths.SourceDir == "" {
		return errors.New("source directory is required (--src or paths.source_dir)")
	}
	if c.Paths.DestDir == "" {
		return errors.New("destination directory is required (--dest or paths.dest_dir)")
	}
	if c.Paths.SourceDir == c.Paths.DestDir {
		return errors.New("source and destination directories must differ")
	}
	if within(c.Paths.DestDir, c.Paths.SourceDir) {
		return fmt.Errorf("destination %s is inside source %s", c.Paths.DestDir, c.Paths.SourceDir)
	}
	if within(c.Paths.SourceDir, c.Paths.DestDir) {
		return fmt.Errorf("source %s is inside destination %s", c.Paths.SourceDir, c.Paths.DestDir)
	}
	return nil
}

func (c *Config) validateTranscode() error {
	t := c.Transcode
	if t.MaxDimension < 2 {
		return fmt.Errorf("transcode.max_dimension must be at least 2, got %d", t.MaxDimension)
	}
	if t.Quality < 0 || t.Quality > MaxQuality {
		return fmt.Errorf("transcode.quality must be between 0 and %d, got %d", MaxQuality, t.Quality)
	}
	if !isSupportedFormat(t.Format) {
		return fmt.Errorf("transcode.format %q is not supported (want one of %s)", t.Format, strings.Join(SupportedFormats, ", "))
	}
	if t.Retries < 0 {
		return errors.New("transcode.retries must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// within reports whether path lies inside root. Both must be clean absolute paths.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
