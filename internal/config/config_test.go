package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidshrink/internal/config"
)

func TestLoadDefaultConfigExpandsStateDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "vidshrink")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Transcode.MaxDimension != 800 {
		t.Fatalf("unexpected max dimension: %d", cfg.Transcode.MaxDimension)
	}
	if cfg.Transcode.Quality != 23 {
		t.Fatalf("unexpected quality: %d", cfg.Transcode.Quality)
	}
	if cfg.Transcode.Format != "mp4" {
		t.Fatalf("unexpected format: %q", cfg.Transcode.Format)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if !cfg.Output.FileTable {
		t.Fatal("expected file table enabled by default")
	}
	if err := cfg.EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidshrink.toml")

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
			DestDir   string `toml:"dest_dir"`
		} `toml:"paths"`
		Transcode struct {
			MaxDimension int    `toml:"max_dimension"`
			Quality      int    `toml:"quality"`
			Format       string `toml:"format"`
		} `toml:"transcode"`
		Output struct {
			FileTable bool `toml:"file_table"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "src")
	custom.Paths.DestDir = filepath.Join(tempDir, "dst")
	custom.Transcode.MaxDimension = 1280
	custom.Transcode.Quality = 28
	custom.Transcode.Format = ".MKV"
	custom.Output.FileTable = false

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %s, got %s (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Transcode.MaxDimension != 1280 || cfg.Transcode.Quality != 28 {
		t.Fatalf("unexpected transcode values: %+v", cfg.Transcode)
	}
	if cfg.Transcode.Format != "mkv" {
		t.Fatalf("expected normalized format mkv, got %q", cfg.Transcode.Format)
	}
	if cfg.Output.FileTable {
		t.Fatal("expected file table disabled by config")
	}
	if cfg.Transcode.VideoCodec != "libx264" {
		t.Fatalf("expected default video codec to survive partial config, got %q", cfg.Transcode.VideoCodec)
	}
	if err := cfg.ValidateRun(); err != nil {
		t.Fatalf("ValidateRun: %v", err)
	}

	run := cfg.Run()
	if run.SourceRoot != custom.Paths.SourceDir || run.DestRoot != custom.Paths.DestDir {
		t.Fatalf("unexpected run roots: %+v", run)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[transcode]\nmax_dimensions = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "tiny dimension", mutate: func(c *config.Config) { c.Transcode.MaxDimension = 1 }, wantErr: "max_dimension"},
		{name: "negative quality", mutate: func(c *config.Config) { c.Transcode.Quality = -1 }, wantErr: "quality"},
		{name: "quality too high", mutate: func(c *config.Config) { c.Transcode.Quality = 52 }, wantErr: "quality"},
		{name: "unknown format", mutate: func(c *config.Config) { c.Transcode.Format = "webm" }, wantErr: "format"},
		{name: "negative retries", mutate: func(c *config.Config) { c.Transcode.Retries = -2 }, wantErr: "retries"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRunRoots(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name     string
		src, dst string
		wantErr  bool
	}{
		{name: "missing source", dst: filepath.Join(base, "out"), wantErr: true},
		{name: "missing dest", src: filepath.Join(base, "in"), wantErr: true},
		{name: "same dir", src: filepath.Join(base, "in"), dst: filepath.Join(base, "in"), wantErr: true},
		{name: "dest inside source", src: filepath.Join(base, "in"), dst: filepath.Join(base, "in", "small"), wantErr: true},
		{name: "sibling prefix", src: filepath.Join(base, "in"), dst: filepath.Join(base, "in-small")},
		{name: "source inside dest", src: filepath.Join(base, "out", "in"), dst: filepath.Join(base, "out"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.SourceDir = tt.src
			cfg.Paths.DestDir = tt.dst
			err := cfg.ValidateRun()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Transcode.DenoiseFilter != "hqdn3d" {
		t.Fatalf("unexpected denoise filter %q", cfg.Transcode.DenoiseFilter)
	}
}
