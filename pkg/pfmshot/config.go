// Package pfmshot provides a high-level API for configuring PFM transcodes.
package pfmshot

import (
	"fmt"

	"github.com/user/pfmshot/pkg/orchestrator"
	"github.com/user/pfmshot/pkg/ports"
)

// Preset represents a named encoder setting.
type Preset string

const (
	PresetFast     Preset = "fast"
	PresetBalanced Preset = "balanced"
	PresetSmall    Preset = "small"
)

// Presets returns the preset names in order of increasing compression.
func Presets() []Preset {
	return []Preset{PresetFast, PresetBalanced, PresetSmall}
}

// ParsePreset parses a preset name.
func ParsePreset(name string) (Preset, error) {
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want fast, balanced or small)", name)
}

// PresetSettings contains the encoder parameters a preset selects.
type PresetSettings struct {
	Codec   string
	Level   int
	Shuffle bool
}

// GetPresetSettings returns the settings for the given preset.
func GetPresetSettings(preset Preset) PresetSettings {
	switch preset {
	case PresetFast:
		return PresetSettings{Codec: "lz4", Level: 0, Shuffle: false}
	case PresetSmall:
		return PresetSettings{Codec: "brotli", Level: 9, Shuffle: true}
	default: // balanced
		return PresetSettings{Codec: "zstd", Level: 3, Shuffle: true}
	}
}

// DefaultStripeRows is the default number of rows per compressed stripe.
const DefaultStripeRows = 64

// DefaultPreviewSize is the default longest edge of the debug preview.
const DefaultPreviewSize = 1024

// Config represents the configuration of one transcode.
type Config struct {
	// Encoding
	Codec      string // zstd, lz4, brotli or none
	Level      int    // Codec-specific level (0 = codec default)
	StripeRows int    // Rows per independently compressed stripe
	Shuffle    bool   // Byte-plane shuffle before compression

	// Execution
	Workers         int  // Compression workers (0 = number of CPUs)
	InitialCapacity int  // Starting output buffer size (0 = default)
	Verify          bool // Decode and compare the output before writing

	// Debug preview
	PreviewSize int     // Longest preview edge in pixels
	Exposure    float64 // Preview exposure in stops
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with balanced preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	b := &ConfigBuilder{
		config: Config{
			StripeRows:  DefaultStripeRows,
			PreviewSize: DefaultPreviewSize,
		},
	}
	return b.WithPreset(PresetBalanced)
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	if cfg.StripeRows < 1 {
		cfg.StripeRows = DefaultStripeRows
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	if cfg.InitialCapacity < 0 {
		cfg.InitialCapacity = 0
	}
	if cfg.PreviewSize < 0 {
		cfg.PreviewSize = 0
	}

	return cfg
}

// WithPreset applies a preset's codec, level and shuffle settings.
func (b *ConfigBuilder) WithPreset(preset Preset) *ConfigBuilder {
	s := GetPresetSettings(preset)
	b.config.Codec = s.Codec
	b.config.Level = s.Level
	b.config.Shuffle = s.Shuffle
	return b
}

// WithCodec sets the compression codec.
func (b *ConfigBuilder) WithCodec(codec string) *ConfigBuilder {
	b.config.Codec = codec
	return b
}

// WithLevel sets the codec-specific compression level.
func (b *ConfigBuilder) WithLevel(level int) *ConfigBuilder {
	b.config.Level = level
	return b
}

// WithStripeRows sets the rows per stripe.
// Values below 1 will be replaced by DefaultStripeRows.
func (b *ConfigBuilder) WithStripeRows(rows int) *ConfigBuilder {
	b.config.StripeRows = rows
	return b
}

// WithShuffle enables or disables the byte-plane shuffle.
func (b *ConfigBuilder) WithShuffle(shuffle bool) *ConfigBuilder {
	b.config.Shuffle = shuffle
	return b
}

// WithWorkers sets the number of compression workers.
func (b *ConfigBuilder) WithWorkers(workers int) *ConfigBuilder {
	b.config.Workers = workers
	return b
}

// WithInitialCapacity sets the starting output buffer size in bytes.
func (b *ConfigBuilder) WithInitialCapacity(n int) *ConfigBuilder {
	b.config.InitialCapacity = n
	return b
}

// WithVerify enables verification of the encoded output.
func (b *ConfigBuilder) WithVerify(verify bool) *ConfigBuilder {
	b.config.Verify = verify
	return b
}

// WithPreviewSize sets the longest edge of the debug preview.
func (b *ConfigBuilder) WithPreviewSize(size int) *ConfigBuilder {
	b.config.PreviewSize = size
	return b
}

// WithExposure sets the debug preview exposure in stops.
func (b *ConfigBuilder) WithExposure(stops float64) *ConfigBuilder {
	b.config.Exposure = stops
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(inputPath, outputPath string) orchestrator.Config {
	return orchestrator.Config{
		InputPath:  inputPath,
		OutputPath: outputPath,

		Encoder: ports.EncoderOptions{
			Codec:      c.Codec,
			Level:      c.Level,
			StripeRows: c.StripeRows,
			Shuffle:    c.Shuffle,
		},
		Workers:         c.Workers,
		InitialCapacity: c.InitialCapacity,
		Verify:          c.Verify,

		Preview: ports.PreviewOptions{
			MaxSize:  c.PreviewSize,
			Exposure: c.Exposure,
		},
	}
}
