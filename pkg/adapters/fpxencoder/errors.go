package fpxencoder

import "errors"

var (
	// ErrUnknownCodec is returned for an unsupported codec name or id.
	ErrUnknownCodec = errors.New("fpxencoder: unknown codec")

	// ErrInvalidLevel is returned when the compression level is out of range for the codec.
	ErrInvalidLevel = errors.New("fpxencoder: invalid compression level")

	// ErrInvalidDimensions is returned for negative or oversized dimensions.
	ErrInvalidDimensions = errors.New("fpxencoder: invalid dimensions")

	// ErrUnsupportedFormat is returned when the submitted pixel format can't be encoded.
	ErrUnsupportedFormat = errors.New("fpxencoder: unsupported pixel format")

	// ErrOutOfOrder is returned when encoder methods are called in the wrong order.
	ErrOutOfOrder = errors.New("fpxencoder: call out of order")

	// ErrClosed is returned when the encoder is used after Close.
	ErrClosed = errors.New("fpxencoder: encoder closed")

	// ErrInvalidStream is returned by Decode for malformed input.
	ErrInvalidStream = errors.New("fpxencoder: invalid stream")
)
