package config

import (
	"fmt"
	"strings"
)

// Normalize expands paths and canonicalizes enumerated values. It is safe to
// call more than once, which the CLI does after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscode()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.DestDir, err = expandPath(strings.TrimSpace(c.Paths.DestDir)); err != nil {
		return fmt.Errorf("paths.dest_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscode() {
	t := &c.Transcode
	t.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(t.Format)), ".")
	if t.Format == "" {
		t.Format = defaultFormat
	}
	t.VideoCodec = fallback(t.VideoCodec, defaultVideoCodec)
	t.AudioCodec = fallback(t.AudioCodec, defaultAudioCodec)
	t.Preset = fallback(t.Preset, defaultPreset)
	t.DenoiseFilter = strings.TrimSpace(t.DenoiseFilter)
	t.FFmpegBinary = fallback(t.FFmpegBinary, defaultFFmpegBinary)
	t.FFprobeBinary = fallback(t.FFprobeBinary, defaultFFprobeBinary)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}
