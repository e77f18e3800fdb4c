package lvbin

import (
	"encoding/binary"
	"fmt"
)

// Header is the unpacked form of the 4-byte container header. It
// implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
//
// The packed form is a little-endian 32-bit value with the historical
// LVGL v8 bit layout: bits 0-4 color format, bits 5-7 always-zero,
// bits 8-9 reserved, bits 10-20 width, bits 21-31 height. The reserved
// fields round-trip but are not validated.
type Header struct {
	Format     ColorFormat
	AlwaysZero uint8
	Reserved   uint8
	Width      int
	Height     int
}

// MarshalBinary packs the header into its 4-byte form.
func (h *Header) MarshalBinary() ([]byte, error) {
	if h.Width < 0 || h.Width > MaxDimension || h.Height < 0 || h.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensionRange, h.Width, h.Height)
	}

	v := uint32(h.Format)&0x1f |
		uint32(h.AlwaysZero&0x07)<<5 |
		uint32(h.Reserved&0x03)<<8 |
		uint32(h.Width&0x7ff)<<10 |
		uint32(h.Height&0x7ff)<<21

	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b, v)

	return b, nil
}

// UnmarshalBinary unpacks the first 4 bytes of b. It is pure bit
// extraction and succeeds on any input long enough; an unrecognised
// format code is carried in Format rather than reported as an error.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrTruncated, len(b))
	}

	v := binary.LittleEndian.Uint32(b)

	h.Format = ColorFormat(v & 0x1f)
	h.AlwaysZero = uint8(v >> 5 & 0x07)
	h.Reserved = uint8(v >> 8 & 0x03)
	h.Width = int(v >> 10 & 0x7ff)
	h.Height = int(v >> 21 & 0x7ff)

	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf("%s %dx%d", h.Format, h.Width, h.Height)
}
