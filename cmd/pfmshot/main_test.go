package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/user/pfmshot/pkg/adapters/fpxencoder"
	"github.com/user/pfmshot/pkg/orchestrator"
	"github.com/user/pfmshot/pkg/pfm"
	"github.com/user/pfmshot/pkg/pipeline"
)

// writePFM writes a small gradient raster and returns its path and image.
func writePFM(t *testing.T, dir string, width, height int) (string, *pipeline.RasterImage) {
	t.Helper()

	img := pipeline.NewRasterImage(width, height)
	for i := range img.Samples {
		img.Samples[i] = float32(i) * 0.25
	}

	var buf bytes.Buffer
	if err := pfm.Encode(&buf, img, binary.LittleEndian); err != nil {
		t.Fatalf("pfm.Encode() error = %v", err)
	}
	path := filepath.Join(dir, "input.pfm")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path, img
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"pfmshot"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_WrongArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"one argument", []string{"in.pfm"}},
		{"three arguments", []string{"a.pfm", "b.fpx", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != orchestrator.ExitUsage {
				t.Errorf("exit code = %d, want %d", code, orchestrator.ExitUsage)
			}
			if !strings.HasPrefix(stderr, "Usage: pfmshot") {
				t.Errorf("stderr = %q, want usage text", stderr)
			}
			if !strings.Contains(stderr, "pfm = ") || !strings.Contains(stderr, "fpx = ") {
				t.Errorf("stderr = %q, want argument descriptions", stderr)
			}
		})
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "--bogus", "a.pfm", "b.fpx")
	if code != orchestrator.ExitUsage {
		t.Errorf("exit code = %d, want %d", code, orchestrator.ExitUsage)
	}
	if !strings.Contains(stderr, "bogus") {
		t.Errorf("stderr = %q, want flag name", stderr)
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 2, 2)
	output := filepath.Join(dir, "out.fpx")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown codec", []string{"--codec", "gzip"}},
		{"level out of range", []string{"--codec", "zstd", "--level", "99"}},
		{"unknown preset", []string{"--preset", "tiny"}},
		{"bad log level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, input, output)
			code, _, stderr := runCLI(t, args...)
			if code != orchestrator.ExitConfig {
				t.Errorf("exit code = %d, want %d", code, orchestrator.ExitConfig)
			}
			if !strings.Contains(stderr, "invalid configuration") {
				t.Errorf("stderr = %q, want a configuration error", stderr)
			}
			if strings.Contains(stderr, "Usage:") {
				t.Errorf("stderr = %q, configuration errors must not print usage", stderr)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("output must not be created")
			}
		})
	}
}

func TestRun_ReadFailures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pfm")
	if err := os.WriteFile(garbage, []byte("P6\n1 1\n255\n\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"missing input", filepath.Join(dir, "missing.pfm")},
		{"not a PFM", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, "out.fpx")
			code, _, _ := runCLI(t, "-Q", tt.input, output)
			if code != orchestrator.ExitRead {
				t.Errorf("exit code = %d, want %d", code, orchestrator.ExitRead)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("output must not be created")
			}
		})
	}
}

func TestRun_Success(t *testing.T) {
	for _, preset := range []string{"fast", "balanced", "small"} {
		t.Run(preset, func(t *testing.T) {
			dir := t.TempDir()
			input, img := writePFM(t, dir, 7, 5)
			output := filepath.Join(dir, "out.fpx")

			code, _, stderr := runCLI(t, "-Q", "--preset", preset, "--stripe-rows", "2", input, output)
			if code != orchestrator.ExitOK {
				t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
			}

			data, err := os.ReadFile(output)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			decoded, err := fpxencoder.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if decoded.Width != img.Width || decoded.Height != img.Height {
				t.Fatalf("dimensions = %dx%d, want %dx%d", decoded.Width, decoded.Height, img.Width, img.Height)
			}
			for i, v := range img.Samples {
				if math.Float32bits(decoded.Samples[i]) != math.Float32bits(v) {
					t.Fatalf("sample %d = %v, want %v", i, decoded.Samples[i], v)
				}
			}
		})
	}
}

func TestRun_OverwritesOutput(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 3, 3)
	output := filepath.Join(dir, "out.fpx")
	if err := os.WriteFile(output, bytes.Repeat([]byte("x"), 1<<16), 0o644); err != nil {
		t.Fatal(err)
	}

	if code, _, stderr := runCLI(t, "-Q", input, output); code != orchestrator.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fpxencoder.Decode(data); err != nil {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestRun_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 2, 2)
	output := filepath.Join(dir, "taken")
	if err := os.Mkdir(output, 0o755); err != nil {
		t.Fatal(err)
	}

	code, _, _ := runCLI(t, "-Q", input, output)
	if code != orchestrator.ExitWrite {
		t.Errorf("exit code = %d, want %d", code, orchestrator.ExitWrite)
	}
}

func TestRun_VerifyAndWorkers(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 16, 9)
	output := filepath.Join(dir, "out.fpx")

	code, _, stderr := runCLI(t, "-Q", "--verify", "-j", "3", "--codec", "lz4", "--no-shuffle",
		"--initial-capacity", "1", input, output)
	if code != orchestrator.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}
}

func TestRun_VerifyDefaultPreset(t *testing.T) {
	for _, size := range []int{1, 8, 70} {
		dir := t.TempDir()
		input, _ := writePFM(t, dir, size, size)
		output := filepath.Join(dir, "out.fpx")

		code, _, stderr := runCLI(t, "-Q", "--verify", input, output)
		if code != orchestrator.ExitOK {
			t.Fatalf("%dx%d: exit code = %d, want 0 (stderr: %s)", size, size, code, stderr)
		}
	}
}

func TestRun_ExitStatusesAreDistinct(t *testing.T) {
	codes := []int{
		orchestrator.ExitOK, orchestrator.ExitUsage, orchestrator.ExitRead,
		orchestrator.ExitEncode, orchestrator.ExitWrite, orchestrator.ExitConfig,
	}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit status %d is used twice", c)
		}
		seen[c] = true
	}
}

func TestRun_Summary(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 4, 4)
	output := filepath.Join(dir, "out.fpx")
	summaryPath := filepath.Join(dir, "reports", "summary.md")

	code, _, stderr := runCLI(t, "-Q", "--summary", summaryPath, input, output)
	if code != orchestrator.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.Contains(string(data), "4x4") {
		t.Errorf("summary missing dimensions:\n%s", data)
	}
	if !strings.Contains(string(data), "zstd") {
		t.Errorf("summary missing codec:\n%s", data)
	}
}

func TestRun_DebugOutput(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 4, 3)
	output := filepath.Join(dir, "out.fpx")
	debugDir := filepath.Join(dir, "debug")

	code, _, stderr := runCLI(t, "-Q", "-d", "--debug-dir", debugDir, input, output)
	if code != orchestrator.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	for _, name := range []string{"header.json", "preview.png", "run.json"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("debug file %s: %v", name, err)
		}
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 5, 5)
	output := filepath.Join(dir, "out.fpx")
	summaryPath := filepath.Join(dir, "summary.md")
	configPath := filepath.Join(dir, "pfmshot.yaml")

	yaml := "preset: fast\ncodec: brotli\nlevel: 4\nstripe_rows: 2\nsummary: " + summaryPath + "\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI(t, "-Q", "-c", configPath, input, output)
	if code != orchestrator.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.Contains(string(data), "brotli") {
		t.Errorf("config codec not applied:\n%s", data)
	}
}

func TestRun_ConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	input, _ := writePFM(t, dir, 2, 2)
	output := filepath.Join(dir, "out.fpx")

	badKey := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badKey, []byte("colour: red\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{badKey, filepath.Join(dir, "missing.yaml")} {
		code, _, stderr := runCLI(t, "-Q", "-c", path, input, output)
		if code != orchestrator.ExitConfig {
			t.Errorf("%s: exit code = %d, want %d", path, code, orchestrator.ExitConfig)
		}
		if !strings.Contains(stderr, "invalid configuration") {
			t.Errorf("%s: stderr = %q", path, stderr)
		}
	}
}

func TestResolveSettings_FlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "pfmshot.yaml")
	if err := os.WriteFile(configPath, []byte("codec: brotli\nworkers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got settings
	app := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	app.Action = func(c *cli.Context) error {
		s, err := resolveSettings(c)
		got = s
		return err
	}
	if err := app.Run([]string{"pfmshot", "-c", configPath, "--codec", "zstd", "--level", "5"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got.transcode.Codec != "zstd" || got.transcode.Level != 5 {
		t.Errorf("codec = %s/%d, want zstd/5", got.transcode.Codec, got.transcode.Level)
	}
	if got.transcode.Workers != 2 {
		t.Errorf("workers = %d, want 2 from config", got.transcode.Workers)
	}
	if got.preset != "" {
		t.Errorf("preset = %q, want empty for custom settings", got.preset)
	}
}
