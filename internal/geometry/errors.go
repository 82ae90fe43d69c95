package geometry

import "errors"

// Error kinds returned by the cropper. Callers match them with errors.Is.
var (
	// ErrInvalidArgument reports an unsupported return type or a malformed
	// aspect ratio.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateBox reports a box whose width or height is not positive
	// after clamping.
	ErrDegenerateBox = errors.New("degenerate box")

	// ErrImageDecode reports an image that could not be opened or decoded.
	ErrImageDecode = errors.New("image decode failed")
)
