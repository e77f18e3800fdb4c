package lvbin

import "errors"

var (
	// ErrTruncated is returned when a container is shorter than its
	// 4-byte header.
	ErrTruncated = errors.New("lvbin: truncated container")

	// ErrDimensionRange is returned when a width or height does not fit
	// the packed header.
	ErrDimensionRange = errors.New("lvbin: dimension out of range")

	// ErrUnknownFormat is returned when decoding a container whose
	// header carries a color format code this package does not know.
	ErrUnknownFormat = errors.New("lvbin: unknown color format")

	// ErrPayloadSize is returned when a direct-color payload does not
	// match the size implied by the header.
	ErrPayloadSize = errors.New("lvbin: payload size mismatch")

	// ErrInvalidLayout is returned when an indexed payload matches none
	// of the known palette layout variants.
	ErrInvalidLayout = errors.New("lvbin: ambiguous or invalid palette layout")

	// ErrTooManyColors is returned when an image has more distinct
	// colors than the target palette can hold.
	ErrTooManyColors = errors.New("lvbin: too many colors for palette")

	// ErrUnmappablePixel is returned when a pixel color is not present
	// in the palette being encoded against.
	ErrUnmappablePixel = errors.New("lvbin: pixel color not in palette")
)
