package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidshrink/internal/config"
	"vidshrink/internal/testsupport"
)

const probeScript = `echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1280,"height":720}],"format":{"duration":"2.0"}}'
`

const encodeScript = `for last; do :; done
printf 'small' > "$last"
`

const failScript = `echo "Invalid data found when processing input" >&2
exit 1
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	src        string
	dest       string
}

// setupCLITestEnv isolates HOME, stubs ffprobe and ffmpeg on PATH, and writes
// a config file whose state directory lives under the test temp dir.
func setupCLITestEnv(t *testing.T, ffmpegBody string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithScript("ffprobe", probeScript),
		testsupport.WithScript("ffmpeg", ffmpegBody),
	)
	base := testsupport.BaseDir(cfg)
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	configPath := filepath.Join(base, "vidshrink.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		src:        cfg.Paths.SourceDir,
		dest:       cfg.Paths.DestDir,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\n\n[transcode]\nffmpeg_binary = %q\nffprobe_binary = %q\n",
		cfg.Paths.StateDir,
		cfg.Transcode.FFmpegBinary,
		cfg.Transcode.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) run(t *testing.T, extra ...string) (string, string, error) {
	t.Helper()
	args := append([]string{"-s", e.src, "-d", e.dest}, extra...)
	return runCLI(t, args, e.configPath)
}

func requireContains(t *testing.T, text, substr string) {
	t.Helper()
	if !strings.Contains(text, substr) {
		t.Fatalf("expected %q to contain %q", text, substr)
	}
}
