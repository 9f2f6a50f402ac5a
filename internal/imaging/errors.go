package imaging

import "errors"

var (
	// ErrOutOfRange reports a pixel access outside the buffer. It is a
	// programming error: correct geometry math never produces one.
	ErrOutOfRange = errors.New("pixel coordinate out of range")

	// ErrInvalidGeometry reports an operation that would produce a buffer
	// with non-positive or oversized dimensions, or negative crop margins.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidFormat reports a file the codec cannot decode or a target
	// extension it cannot encode.
	ErrInvalidFormat = errors.New("not in a recognized image file format")
)
