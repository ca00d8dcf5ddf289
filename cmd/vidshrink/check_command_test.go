package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckPassesWithStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t, encodeScript)

	out, _, err := runCLI(t, []string{"check", "-s", env.src, "-d", env.dest}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	for _, want := range []string{"FFmpeg", "FFprobe", "Source directory", "Destination directory"} {
		requireContains(t, out, want)
	}
	if strings.Contains(out, "FAIL") {
		t.Fatalf("expected all checks to pass:\n%s", out)
	}
}

func TestCheckReportsMissingTool(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	configPath := filepath.Join(base, "vidshrink.toml")
	content := "[paths]\nstate_dir = \"" + filepath.Join(base, "state") + "\"\n\n" +
		"[transcode]\nffmpeg_binary = \"" + filepath.Join(base, "no-such-ffmpeg") + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err == nil {
		t.Fatal("expected check to fail when ffmpeg is missing")
	}
	requireContains(t, err.Error(), "FFmpeg")
	requireContains(t, out, "FAIL")
}
