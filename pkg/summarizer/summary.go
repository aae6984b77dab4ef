// Package summarizer provides summary generation for transcode results.
package summarizer

import "time"

// Summary contains all data collected during one transcode.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	Input    InputInfo
	Settings Settings
	Output   OutputInfo
	Drain    DrainInfo

	Elapsed time.Duration
}

// InputInfo describes the source raster.
type InputInfo struct {
	Path     string
	Width    int
	Height   int
	FileSize int64
}

// Settings contains the encoder configuration.
type Settings struct {
	Preset     string
	Codec      string
	Level      int
	StripeRows int
	Shuffle    bool
	Workers    int
}

// OutputInfo describes the written file.
type OutputInfo struct {
	Path     string
	FileSize int64
	Verified bool
}

// DrainInfo contains output buffer statistics.
type DrainInfo struct {
	Steps         int
	Growths       int
	FinalCapacity int
}

// CompressionRatio returns input size divided by output size, or 0 when
// there is no output.
func (s *Summary) CompressionRatio() float64 {
	if s.Output.FileSize == 0 {
		return 0
	}
	return float64(s.Input.FileSize) / float64(s.Output.FileSize)
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input information.
func (b *Builder) WithInput(path string, width, height int, fileSize int64) *Builder {
	b.summary.Input = InputInfo{
		Path:     path,
		Width:    width,
		Height:   height,
		FileSize: fileSize,
	}
	return b
}

// WithSettings sets encoder settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(path string, fileSize int64, verified bool) *Builder {
	b.summary.Output = OutputInfo{
		Path:     path,
		FileSize: fileSize,
		Verified: verified,
	}
	return b
}

// WithDrain sets output buffer statistics.
func (b *Builder) WithDrain(steps, growths, finalCapacity int) *Builder {
	b.summary.Drain = DrainInfo{
		Steps:         steps,
		Growths:       growths,
		FinalCapacity: finalCapacity,
	}
	return b
}

// WithElapsed sets the wall-clock duration of the run.
func (b *Builder) WithElapsed(d time.Duration) *Builder {
	b.summary.Elapsed = d
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
