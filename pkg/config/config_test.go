package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/pfmshot/pkg/pfmshot"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pfmshot.yaml")
	content := `
preset: small
level: 5
stripe_rows: 32
workers: 4
verify: true
summary: report.md
log_level: debug
debug: true
debug_dir: ./dbg
preview:
  max_size: 256
  exposure: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if f.Preset != "small" || f.Summary != "report.md" || f.LogLevel != "debug" || !f.Debug || f.DebugDir != "./dbg" {
		t.Errorf("unexpected file settings: %+v", f)
	}

	b := pfmshot.NewConfigBuilder()
	if err := f.Apply(b); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	cfg := b.Build()

	if cfg.Codec != "brotli" {
		t.Errorf("expected preset codec brotli, got %q", cfg.Codec)
	}
	if cfg.Level != 5 {
		t.Errorf("expected explicit level 5 to override preset, got %d", cfg.Level)
	}
	if !cfg.Shuffle {
		t.Error("expected preset shuffle to be kept")
	}
	if cfg.StripeRows != 32 || cfg.Workers != 4 || !cfg.Verify {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.PreviewSize != 256 || cfg.Exposure != -1 {
		t.Errorf("unexpected preview settings %+v", cfg)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	b := pfmshot.NewConfigBuilder()
	if err := f.Apply(b); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got, want := b.Build(), pfmshot.NewConfigBuilder().Build(); got != want {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestParse_ExplicitFalse(t *testing.T) {
	f, err := Parse([]byte("shuffle: false\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b := pfmshot.NewConfigBuilder()
	if err := f.Apply(b); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if b.Build().Shuffle {
		t.Error("expected shuffle to be disabled")
	}
}

func TestParse_UnknownKey(t *testing.T) {
	if _, err := Parse([]byte("codecs: zstd\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestApply_UnknownPreset(t *testing.T) {
	f := File{Preset: "ultra"}
	if err := f.Apply(pfmshot.NewConfigBuilder()); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
