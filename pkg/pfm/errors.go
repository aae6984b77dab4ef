package pfm

import (
	"fmt"

	"github.com/user/pfmshot/pkg/pipeline"
)

var (
	// ErrInvalidSignature is returned when the first line is not "PF".
	ErrInvalidSignature = fmt.Errorf("%w: doesn't seem to be a 3 channel Portable FloatMap file (missing 'PF\\n' bytes)", pipeline.ErrFormat)

	// ErrTruncatedHeader is returned when a header line is missing its delimiter.
	ErrTruncatedHeader = fmt.Errorf("%w: truncated Portable FloatMap header", pipeline.ErrFormat)

	// ErrInvalidDimensions is returned when width or height is not an unsigned decimal integer.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid Portable FloatMap dimensions", pipeline.ErrFormat)

	// ErrInvalidScale is returned when the endianness token is neither "1.0" nor "-1.0".
	ErrInvalidScale = fmt.Errorf("%w: endianness token isn't '1.0' or '-1.0'", pipeline.ErrFormat)

	// ErrSizeMismatch is returned when the pixel payload has the wrong length.
	ErrSizeMismatch = fmt.Errorf("%w: pixel data size mismatch", pipeline.ErrFormat)

	// ErrUnsupportedByteOrder is returned when the file's byte order differs from the host's.
	ErrUnsupportedByteOrder = fmt.Errorf("%w: different endianness than the host, conversion is not supported", pipeline.ErrFormat)
)
