/*
Package lvbin implements a decoder and encoder for the LVGL v8 binary
image container.

The container is a 4-byte little-endian bit-packed header followed by
the pixel payload. The header records the color format and the image
dimensions. Direct-color payloads store one fixed-size value per pixel;
indexed payloads store an RGBA palette followed by a bitmap of palette
indices where each pixel row is padded to a whole number of bytes.

Indexed containers come in three historical layout variants: a full
palette, a palette carrying one extra all-zero entry, or no palette at
all with a conventional two-color palette implied. Decode resolves the
variant from the payload size; Analyze surfaces every structurally
valid interpretation for inspection.
*/
package lvbin

const (
	// HeaderSize is the length in bytes of the container header.
	HeaderSize = 4

	// MaxDimension is the largest width or height the encoder accepts.
	MaxDimension = 511

	paletteEntrySize = 4
)

// Join assembles a container from a header and a pixel payload.
func Join(h Header, payload []byte) ([]byte, error) {
	b, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(b, payload...), nil
}

// Split separates a container into its header and pixel payload without
// decoding any pixels.
func Split(b []byte) (Header, []byte, error) {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return Header{}, nil, err
	}
	return h, b[HeaderSize:], nil
}
