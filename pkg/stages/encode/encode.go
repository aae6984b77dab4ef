// Package encode implements the stage that compresses the raster.
package encode

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/user/pfmshot/pkg/drain"
	"github.com/user/pfmshot/pkg/pipeline"
	"github.com/user/pfmshot/pkg/ports"
)

// ErrVerifyMismatch is returned when the encoded output does not decode to
// the input raster.
var ErrVerifyMismatch = fmt.Errorf("%w: decoded output differs from input", pipeline.ErrEncode)

// RunnerFactory acquires the execution scheduler for one encode.
type RunnerFactory func(workers int) (ports.ParallelRunner, error)

// EncoderFactory creates an encoder bound to runner.
type EncoderFactory func(runner ports.ParallelRunner, opts ports.EncoderOptions) (ports.ImageEncoder, error)

// DecodeFunc decodes encoder output back into a raster for verification.
type DecodeFunc func(data []byte) (*pipeline.RasterImage, error)

// Stage drives an encoder through its lifecycle and drains its output.
type Stage struct {
	newRunner  RunnerFactory
	newEncoder EncoderFactory
	decode     DecodeFunc
	logger     ports.Logger
}

// New creates a new encode stage. decode may be nil when verification is
// never requested.
func New(runners RunnerFactory, encoders EncoderFactory, decode DecodeFunc, logger ports.Logger) *Stage {
	return &Stage{
		newRunner:  runners,
		newEncoder: encoders,
		decode:     decode,
		logger:     logger.WithComponent("encoder"),
	}
}

// Execute encodes input.Image.
//
// The scheduler and the encoder are released on every return path. Every
// failure wraps pipeline.ErrEncode and names the step that failed.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	img := input.Image
	if img == nil {
		return result, fmt.Errorf("%w: no image to encode", pipeline.ErrEncode)
	}

	runner, err := s.newRunner(input.Workers)
	if err != nil {
		return result, fmt.Errorf("%w: create scheduler: %w", pipeline.ErrEncode, err)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			s.logger.Warn("Failed to release scheduler: %s", err)
		}
	}()

	enc, err := s.newEncoder(runner, input.Options)
	if err != nil {
		return result, fmt.Errorf("%w: create encoder: %w", pipeline.ErrEncode, err)
	}
	defer func() {
		if err := enc.Close(); err != nil {
			s.logger.Warn("Failed to release encoder: %s", err)
		}
	}()

	if err := enc.SetDimensions(img.Width, img.Height); err != nil {
		return result, fmt.Errorf("%w: set dimensions %dx%d: %w", pipeline.ErrEncode, img.Width, img.Height, err)
	}
	if err := enc.AddImageFrame(pipeline.FloatPixelFormat, img.Samples); err != nil {
		return result, fmt.Errorf("%w: add image frame: %w", pipeline.ErrEncode, err)
	}

	var stats drain.Stats
	data, err := drain.Drain(enc.ProcessOutput,
		drain.WithInitialCapacity(input.InitialCapacity),
		drain.WithStats(&stats),
		drain.WithGrowthObserver(func(oldCap, newCap int) {
			s.logger.Debug("Output buffer grown from %d to %d bytes", oldCap, newCap)
		}),
	)
	if err != nil {
		if encErr := enc.Err(); encErr != nil {
			return result, fmt.Errorf("process output: %w: %w", err, encErr)
		}
		return result, fmt.Errorf("process output: %w", err)
	}
	s.logger.Debug("Drained %d bytes in %d steps", stats.Written, stats.Steps)

	result.Data = data
	result.Steps = stats.Steps
	result.Growths = stats.Growths
	result.FinalCapacity = stats.FinalCapacity

	if input.Verify {
		if err := s.verify(data, img); err != nil {
			return pipeline.EncodeResult{}, err
		}
		result.Verified = true
		s.logger.Debug("Verified %d samples", len(img.Samples))
	}

	return result, nil
}

// verify decodes data and compares it with img bit for bit.
func (s *Stage) verify(data []byte, img *pipeline.RasterImage) error {
	if s.decode == nil {
		return fmt.Errorf("%w: verify: no decoder configured", pipeline.ErrEncode)
	}
	decoded, err := s.decode(data)
	if err != nil {
		return fmt.Errorf("%w: verify: %w", pipeline.ErrEncode, err)
	}
	if decoded.Width != img.Width || decoded.Height != img.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrVerifyMismatch, decoded.Width, decoded.Height, img.Width, img.Height)
	}
	if len(decoded.Samples) != len(img.Samples) {
		return fmt.Errorf("%w: got %d samples, want %d", ErrVerifyMismatch, len(decoded.Samples), len(img.Samples))
	}
	for i, v := range img.Samples {
		if math.Float32bits(decoded.Samples[i]) != math.Float32bits(v) {
			return fmt.Errorf("%w: first difference at sample %d", ErrVerifyMismatch, i)
		}
	}
	return nil
}

// IsVerifyMismatch reports whether err came from a failed verification.
func IsVerifyMismatch(err error) bool {
	return errors.Is(err, ErrVerifyMismatch)
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage)(nil)
