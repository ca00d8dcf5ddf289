package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidshrink/internal/apperr"
	"vidshrink/internal/runlock"
	"vidshrink/internal/testsupport"
)

type summaryRecord struct {
	ProcessedFiles     int     `json:"processed_files"`
	MinimizedFiles     int     `json:"minimized_files"`
	ElapsedTime        int64   `json:"elapsed_time"`
	TotalSourceSize    float64 `json:"total_source_size"`
	TotalMinimizedSize float64 `json:"total_minimized_size"`
}

func decodeSummary(t *testing.T, out string) summaryRecord {
	t.Helper()
	trimmed := strings.TrimSpace(out)
	if strings.Contains(trimmed, "\n") {
		t.Fatalf("expected a single JSON line, got %q", out)
	}
	var rec summaryRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		t.Fatalf("decode summary %q: %v", out, err)
	}
	return rec
}

func TestHelpSucceeds(t *testing.T) {
	out, _, err := runCLI(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"--src", "--dest", "--max-dimension", "--compression", "--json", "--quiet"} {
		requireContains(t, out, want)
	}
}

func TestUnknownFlagIncludesUsage(t *testing.T) {
	_, _, err := runCLI(t, []string{"--bogus"}, "")
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	requireContains(t, err.Error(), "unknown flag")
	requireContains(t, err.Error(), "Usage:")
}

func TestPositionalArgumentsRejected(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	if _, _, err := runCLI(t, []string{"extra"}, env.configPath); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestMissingSourceIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	_, _, err := runCLI(t, []string{"-d", env.dest}, env.configPath)
	if err == nil {
		t.Fatal("expected error without --src")
	}
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "source directory is required")
}

func TestNonexistentSourceFailsPreflight(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	missing := filepath.Join(testsupport.BaseDir(env.cfg), "nope")
	_, _, err := runCLI(t, []string{"-s", missing, "-d", env.dest}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	requireContains(t, err.Error(), "Source directory")
}

func TestDestinationInsideSourceRejected(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	_, _, err := runCLI(t, []string{"-s", env.src, "-d", filepath.Join(env.src, "out")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for nested destination")
	}
	requireContains(t, err.Error(), "inside source")
}

func TestRunEncodesTreeAndSkipsOnSecondRun(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	testsupport.WriteFile(t, filepath.Join(env.src, "a.mov"), 2048)
	testsupport.WriteFile(t, filepath.Join(env.src, "sub", "b.MKV"), 1024)
	testsupport.WriteFile(t, filepath.Join(env.src, "notes.txt"), 10)

	out, _, err := env.run(t)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	requireContains(t, out, "100% (2/2)")
	requireContains(t, out, "Minimized files:       2")
	requireContains(t, out, "sub/b.MKV")

	for _, rel := range []string{"a.mp4", filepath.Join("sub", "b.mp4")} {
		data, err := os.ReadFile(filepath.Join(env.dest, rel))
		if err != nil {
			t.Fatalf("expected output %s: %v", rel, err)
		}
		if string(data) != "small" {
			t.Fatalf("unexpected content in %s: %q", rel, data)
		}
	}
	if _, err := os.Stat(filepath.Join(env.dest, "notes.mp4")); !os.IsNotExist(err) {
		t.Fatalf("non-video file should not be mirrored, err=%v", err)
	}

	out, _, err = env.run(t, "--json")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	rec := decodeSummary(t, out)
	if rec.ProcessedFiles != 2 || rec.MinimizedFiles != 0 {
		t.Fatalf("unexpected second run summary: %+v", rec)
	}
}

func TestJSONOutputIsOnlyTheRecord(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	testsupport.WriteFile(t, filepath.Join(env.src, "clip.avi"), 512)

	out, _, err := env.run(t, "-j")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, `"processed_files":1`)
	rec := decodeSummary(t, out)
	if rec.MinimizedFiles != 1 {
		t.Fatalf("unexpected summary: %+v", rec)
	}
}

func TestQuietPrintsNothing(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	testsupport.WriteFile(t, filepath.Join(env.src, "clip.mp4"), 512)

	out, stderr, err := env.run(t, "-q")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty stdout, got %q", out)
	}
	if stderr != "" {
		t.Fatalf("expected empty stderr, got %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(env.dest, "clip.mp4")); err != nil {
		t.Fatalf("expected output: %v", err)
	}
}

func TestTranscodeFailureIsReportedNotFatal(t *testing.T) {
	env := setupCLITestEnv(t, failScript)
	testsupport.WriteFile(t, filepath.Join(env.src, "broken.mov"), 512)

	out, stderr, err := env.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Failed files:")
	requireContains(t, out, "corrupt_input")
	requireContains(t, stderr, "transcode failed")
	entries, err := os.ReadDir(env.dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no output files, found %d", len(entries))
	}
}

func TestRunRefusesWhenLockHeld(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)
	if err := env.cfg.EnsureStateDir(); err != nil {
		t.Fatal(err)
	}
	lock, err := runlock.Acquire(env.cfg.LockDir(), env.dest)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	_, _, err = env.run(t)
	if err == nil {
		t.Fatal("expected lock contention error")
	}
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}
