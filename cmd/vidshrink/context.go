package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidshrink/internal/apperr"
	"vidshrink/internal/config"
)

// runFlags holds the root command's flag values.
type runFlags struct {
	src          string
	dest         string
	maxDimension int
	compression  int
	format       string
	structured   bool
	quiet        bool
	noTable      bool
	noHistory    bool
	logLevel     string
}

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = apperr.Configuration("load config", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// applyOverrides copies explicitly set flags over file values and
// re-normalizes the result.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, f *runFlags) error {
	flags := cmd.Flags()
	if flags.Changed("src") {
		cfg.Paths.SourceDir = f.src
	}
	if flags.Changed("dest") {
		cfg.Paths.DestDir = f.dest
	}
	if flags.Changed("max-dimension") {
		cfg.Transcode.MaxDimension = f.maxDimension
	}
	if flags.Changed("compression") {
		cfg.Transcode.Quality = f.compression
	}
	if flags.Changed("format") {
		cfg.Transcode.Format = f.format
	}
	if flags.Changed("json") {
		cfg.Output.JSON = f.structured
	}
	if flags.Changed("quiet") {
		cfg.Output.Quiet = f.quiet
	}
	if f.noTable {
		cfg.Output.FileTable = false
	}
	if f.noHistory {
		cfg.History.Enabled = false
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if err := cfg.Normalize(); err != nil {
		return apperr.Configuration("normalize", err)
	}
	if err := resolveRoots(cfg); err != nil {
		return err
	}
	if err := cfg.ValidateRun(); err != nil {
		return apperr.Configuration("invalid run settings", err)
	}
	return nil
}

// resolveRoots makes both roots absolute and resolves symlinks so the
// containment checks compare real locations.
func resolveRoots(cfg *config.Config) error {
	var err error
	if cfg.Paths.SourceDir, err = resolveRoot(cfg.Paths.SourceDir); err != nil {
		return apperr.Configuration("source directory", err)
	}
	if cfg.Paths.DestDir, err = resolveRoot(cfg.Paths.DestDir); err != nil {
		return apperr.Configuration("destination directory", err)
	}
	return nil
}

func resolveRoot(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func flagErrorWithUsage(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w\n\n%s", err, strings.TrimRight(cmd.UsageString(), "\n"))
}
