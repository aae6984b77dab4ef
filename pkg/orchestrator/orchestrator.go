// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/pfmshot/pkg/pipeline"
	"github.com/user/pfmshot/pkg/ports"
	"github.com/user/pfmshot/pkg/stages/encode"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Files
	InputPath  string
	OutputPath string

	// Encoding
	Encoder         ports.EncoderOptions
	Workers         int // Scheduler workers (0 = number of CPUs)
	InitialCapacity int // Starting output buffer size (0 = default)
	Verify          bool

	// Debug preview
	Preview ports.PreviewOptions
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Encoder: ports.EncoderOptions{
			Codec:      "zstd",
			Level:      3,
			StripeRows: 64,
			Shuffle:    true,
		},
		Preview: ports.PreviewOptions{
			MaxSize: 1024,
		},
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	readStage   pipeline.Stage[pipeline.ReadInput, pipeline.ReadResult]
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs          ports.FileSystem
	sink        ports.DebugSink
	renderer    ports.Renderer
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	readStage pipeline.Stage[pipeline.ReadInput, pipeline.ReadResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	renderer ports.Renderer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		readStage:   readStage,
		encodeStage: encodeStage,
		fs:          fs,
		sink:        sink,
		renderer:    renderer,
		logger:      logger,
	}
}

// Run reads the input, encodes it and writes the output file.
// Errors are *StageError values; see ExitCode.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	started := time.Now()
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Read input
	o.logger.Info(l10n.F("Reading %s", config.InputPath))
	read, err := o.readStage.Execute(ctx, pipeline.ReadInput{Path: config.InputPath})
	if err != nil {
		o.logger.Error(l10n.F("Couldn't load %s", config.InputPath))
		o.logger.Error("%s", err)
		return RunResult{}, &StageError{Stage: StageRead, Err: err}
	}
	img := read.Image
	o.logger.Info(l10n.F("Loaded %dx%d raster (%d bytes)", img.Width, img.Height, read.Header.FileSize))

	o.saveInputDebug(read, config.Preview)

	if err := ctx.Err(); err != nil {
		return RunResult{}, &StageError{Stage: StageEncode, Err: err}
	}

	// 2. Encode
	o.logger.Info(l10n.F("Encoding with %s level %d", config.Encoder.Codec, config.Encoder.Level))
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Image:           img,
		Options:         config.Encoder,
		Workers:         config.Workers,
		InitialCapacity: config.InitialCapacity,
		Verify:          config.Verify,
	})
	if err != nil {
		if encode.IsVerifyMismatch(err) {
			o.logger.Error(l10n.T("Verification failed"))
		}
		o.logger.Error(l10n.F("Couldn't encode %s", config.InputPath))
		o.logger.Error("%s", err)
		return RunResult{}, &StageError{Stage: StageEncode, Err: err}
	}
	o.logger.Info(l10n.F("Encoded %d bytes", len(encoded.Data)))
	if encoded.Verified {
		o.logger.Info(l10n.T("Output verified"))
	}

	if err := ctx.Err(); err != nil {
		return RunResult{}, &StageError{Stage: StageWrite, Err: err}
	}

	// 3. Write output
	if err := o.fs.WriteFile(config.OutputPath, encoded.Data); err != nil {
		o.logger.Error(l10n.F("Couldn't write %s", config.OutputPath))
		o.logger.Error("%s", err)
		return RunResult{}, &StageError{
			Stage: StageWrite,
			Err:   fmt.Errorf("%w: %s: %v", pipeline.ErrIO, config.OutputPath, err),
		}
	}

	result := RunResult{
		InputPath:     config.InputPath,
		OutputPath:    config.OutputPath,
		Width:         img.Width,
		Height:        img.Height,
		InputBytes:    read.Header.FileSize,
		OutputBytes:   len(encoded.Data),
		Codec:         config.Encoder.Codec,
		Level:         config.Encoder.Level,
		StripeRows:    config.Encoder.StripeRows,
		Shuffle:       config.Encoder.Shuffle,
		Workers:       config.Workers,
		Steps:         encoded.Steps,
		Growths:       encoded.Growths,
		FinalCapacity: encoded.FinalCapacity,
		Verified:      encoded.Verified,
		Elapsed:       time.Since(started),
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			if err := o.sink.SaveRunJSON(data); err != nil {
				o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
			}
		}
	}

	o.logger.Info(l10n.F("Output saved to %s", config.OutputPath))
	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

// saveInputDebug writes the header and a preview of the input. Failures are
// logged and never stop the pipeline.
func (o *Orchestrator) saveInputDebug(read pipeline.ReadResult, preview ports.PreviewOptions) {
	if !o.sink.Enabled() {
		return
	}

	if data, err := json.MarshalIndent(read.Header, "", "  "); err == nil {
		if err := o.sink.SaveHeaderJSON(data); err != nil {
			o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
		}
	}

	img := read.Image
	if img.Width == 0 || img.Height == 0 {
		return
	}
	thumb := o.renderer.ToneMap(img.Width, img.Height, img.Samples, preview)
	if err := o.sink.SavePreview(thumb); err != nil {
		o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
	}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	InputPath  string `json:"input"`
	OutputPath string `json:"output"`

	// Raster
	Width  int `json:"width"`
	Height int `json:"height"`

	// Sizes
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// Encoder settings
	Codec      string `json:"codec"`
	Level      int    `json:"level"`
	StripeRows int    `json:"stripe_rows"`
	Shuffle    bool   `json:"shuffle"`
	Workers    int    `json:"workers"`

	// Output drain
	Steps         int  `json:"steps"`
	Growths       int  `json:"growths"`
	FinalCapacity int  `json:"final_capacity"`
	Verified      bool `json:"verified"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// CompressionRatio returns input size divided by output size.
func (r RunResult) CompressionRatio() float64 {
	if r.OutputBytes == 0 {
		return 0
	}
	return float64(r.InputBytes) / float64(r.OutputBytes)
}
