// Package config provides configuration loading from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/pfmshot/pkg/pfmshot"
)

// File represents a pfmshot YAML configuration file. Fields left out of the
// file keep the value chosen by the preset or the defaults.
type File struct {
	Preset string `yaml:"preset"`

	// Encoding
	Codec      *string `yaml:"codec"`
	Level      *int    `yaml:"level"`
	StripeRows *int    `yaml:"stripe_rows"`
	Shuffle    *bool   `yaml:"shuffle"`

	// Execution
	Workers         *int  `yaml:"workers"`
	InitialCapacity *int  `yaml:"initial_capacity"`
	Verify          *bool `yaml:"verify"`

	// Output
	Summary  string        `yaml:"summary"`
	LogLevel string        `yaml:"log_level"`
	Debug    bool          `yaml:"debug"`
	DebugDir string        `yaml:"debug_dir"`
	Preview  PreviewConfig `yaml:"preview"`
}

// PreviewConfig represents debug preview settings.
type PreviewConfig struct {
	MaxSize  *int     `yaml:"max_size"`
	Exposure *float64 `yaml:"exposure"`
}

// LoadFromFile loads configuration from a YAML file. Unknown keys are errors.
func LoadFromFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document. An empty document is valid.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}

// Apply copies the settings present in the file onto b. The preset is
// applied first so explicit settings override it.
func (f File) Apply(b *pfmshot.ConfigBuilder) error {
	if f.Preset != "" {
		preset, err := pfmshot.ParsePreset(f.Preset)
		if err != nil {
			return err
		}
		b.WithPreset(preset)
	}

	if f.Codec != nil {
		b.WithCodec(*f.Codec)
	}
	if f.Level != nil {
		b.WithLevel(*f.Level)
	}
	if f.StripeRows != nil {
		b.WithStripeRows(*f.StripeRows)
	}
	if f.Shuffle != nil {
		b.WithShuffle(*f.Shuffle)
	}
	if f.Workers != nil {
		b.WithWorkers(*f.Workers)
	}
	if f.InitialCapacity != nil {
		b.WithInitialCapacity(*f.InitialCapacity)
	}
	if f.Verify != nil {
		b.WithVerify(*f.Verify)
	}
	if f.Preview.MaxSize != nil {
		b.WithPreviewSize(*f.Preview.MaxSize)
	}
	if f.Preview.Exposure != nil {
		b.WithExposure(*f.Preview.Exposure)
	}
	return nil
}
