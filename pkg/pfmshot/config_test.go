package pfmshot

import (
	"testing"
)

func TestNewConfigBuilder_Defaults(t *testing.T) {
	cfg := NewConfigBuilder().Build()

	if cfg.Codec != "zstd" || cfg.Level != 3 || !cfg.Shuffle {
		t.Errorf("expected balanced preset, got %+v", cfg)
	}
	if cfg.StripeRows != DefaultStripeRows {
		t.Errorf("expected %d stripe rows, got %d", DefaultStripeRows, cfg.StripeRows)
	}
	if cfg.PreviewSize != DefaultPreviewSize {
		t.Errorf("expected preview size %d, got %d", DefaultPreviewSize, cfg.PreviewSize)
	}
	if cfg.Verify {
		t.Error("expected verification to be off by default")
	}
}

func TestConfigBuilder_Presets(t *testing.T) {
	tests := []struct {
		preset  Preset
		codec   string
		level   int
		shuffle bool
	}{
		{PresetFast, "lz4", 0, false},
		{PresetBalanced, "zstd", 3, true},
		{PresetSmall, "brotli", 9, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := NewConfigBuilder().WithPreset(tt.preset).Build()
			if cfg.Codec != tt.codec || cfg.Level != tt.level || cfg.Shuffle != tt.shuffle {
				t.Errorf("got %s level %d shuffle %v", cfg.Codec, cfg.Level, cfg.Shuffle)
			}
		})
	}
}

func TestConfigBuilder_OverridesAfterPreset(t *testing.T) {
	cfg := NewConfigBuilder().
		WithPreset(PresetFast).
		WithLevel(9).
		WithShuffle(true).
		Build()

	if cfg.Codec != "lz4" || cfg.Level != 9 || !cfg.Shuffle {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestConfigBuilder_Constraints(t *testing.T) {
	cfg := NewConfigBuilder().
		WithStripeRows(0).
		WithWorkers(-3).
		WithInitialCapacity(-1).
		WithPreviewSize(-10).
		Build()

	if cfg.StripeRows != DefaultStripeRows {
		t.Errorf("expected stripe rows %d, got %d", DefaultStripeRows, cfg.StripeRows)
	}
	if cfg.Workers != 0 || cfg.InitialCapacity != 0 || cfg.PreviewSize != 0 {
		t.Errorf("expected negative values to be clamped, got %+v", cfg)
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets() {
		got, err := ParsePreset(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePreset("ultra"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestConfig_ToOrchestratorConfig(t *testing.T) {
	cfg := NewConfigBuilder().
		WithCodec("none").
		WithLevel(0).
		WithStripeRows(16).
		WithWorkers(2).
		WithInitialCapacity(4096).
		WithVerify(true).
		WithExposure(1.5).
		Build()

	oc := cfg.ToOrchestratorConfig("in.pfm", "out.fpx")

	if oc.InputPath != "in.pfm" || oc.OutputPath != "out.fpx" {
		t.Errorf("unexpected paths %q -> %q", oc.InputPath, oc.OutputPath)
	}
	if oc.Encoder.Codec != "none" || oc.Encoder.StripeRows != 16 || !oc.Encoder.Shuffle {
		t.Errorf("unexpected encoder options %+v", oc.Encoder)
	}
	if oc.Workers != 2 || oc.InitialCapacity != 4096 || !oc.Verify {
		t.Errorf("unexpected execution options %+v", oc)
	}
	if oc.Preview.MaxSize != DefaultPreviewSize || oc.Preview.Exposure != 1.5 {
		t.Errorf("unexpected preview options %+v", oc.Preview)
	}
}
