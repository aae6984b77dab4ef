// Package drain collects the output of an encoder that produces its
// bitstream on demand into a single contiguous byte slice.
package drain

import (
	"fmt"

	"github.com/user/pfmshot/pkg/pipeline"
	"github.com/user/pfmshot/pkg/ports"
)

// DefaultInitialCapacity is the starting size of the output buffer.
const DefaultInitialCapacity = 64

// StepFunc produces the next chunk of output into dst and reports how many
// bytes it wrote. It matches ports.ImageEncoder.ProcessOutput.
type StepFunc func(dst []byte) (int, ports.EncoderStatus)

// Stats describes a finished drain.
type Stats struct {
	Steps         int // Calls to the step function
	Growths       int // Capacity doublings
	FinalCapacity int // Capacity when the step reported success
	Written       int // Bytes produced
}

type config struct {
	initialCapacity int
	maxCapacity     int
	onGrow          func(oldCap, newCap int)
	stats           *Stats
}

// Option configures Drain.
type Option func(*config)

// WithInitialCapacity sets the starting buffer size. Values below 1 select
// DefaultInitialCapacity.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.initialCapacity = n
		}
	}
}

// WithMaxCapacity bounds the buffer size. Zero means unbounded.
func WithMaxCapacity(n int) Option {
	return func(c *config) {
		c.maxCapacity = n
	}
}

// WithGrowthObserver registers fn to be called after every growth.
func WithGrowthObserver(fn func(oldCap, newCap int)) Option {
	return func(c *config) {
		c.onGrow = fn
	}
}

// WithStats fills s with statistics about the drain, on success and on failure.
func WithStats(s *Stats) Option {
	return func(c *config) {
		c.stats = s
	}
}

type state int

const (
	stateProducing state = iota
	stateNeedMoreSpace
	stateDone
)

// Drain calls step until it reports ports.StatusSuccess and returns every
// byte it produced, in order.
//
// When step reports ports.StatusNeedMoreOutput the buffer capacity doubles
// and step is called again with the new free region; the encoder is expected
// to resume, not restart. Any other status is an error and the partial
// output is discarded.
func Drain(step StepFunc, opts ...Option) ([]byte, error) {
	cfg := config{initialCapacity: DefaultInitialCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	stats := cfg.stats
	if stats == nil {
		stats = &Stats{}
	}
	*stats = Stats{}

	buf := NewBuffer(cfg.initialCapacity)
	defer func() {
		stats.FinalCapacity = buf.Cap()
		stats.Written = buf.Len()
	}()

	st := stateProducing
	for {
		switch st {
		case stateProducing:
			n, status := step(buf.Free())
			stats.Steps++
			if err := buf.Advance(n); err != nil {
				return nil, err
			}
			switch status {
			case ports.StatusSuccess:
				st = stateDone
			case ports.StatusNeedMoreOutput:
				st = stateNeedMoreSpace
			default:
				return nil, fmt.Errorf("%w: encoder reported %s after %d bytes", pipeline.ErrEncode, status, buf.Len())
			}

		case stateNeedMoreSpace:
			old := buf.Cap()
			if err := buf.Grow(cfg.maxCapacity); err != nil {
				return nil, err
			}
			stats.Growths++
			if cfg.onGrow != nil {
				cfg.onGrow(old, buf.Cap())
			}
			st = stateProducing

		case stateDone:
			return buf.Bytes(), nil
		}
	}
}
