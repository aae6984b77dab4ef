package pipeline

import "errors"

// Error classes shared by every stage. Package-specific errors wrap one of
// these so callers can classify failures with errors.Is.
var (
	// ErrIO is returned when a file cannot be opened, read, written or closed.
	ErrIO = errors.New("i/o error")

	// ErrFormat is returned for structural violations of the input container.
	ErrFormat = errors.New("format error")

	// ErrEncode is returned for any unexpected result from the encoder.
	ErrEncode = errors.New("encode error")
)
