package lvbin

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	header   Header
	fallback color.Palette

	img *image.NRGBA
}

func (d *decoder) readHeader(r io.Reader) error {
	d.r = r

	var tmp [HeaderSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrTruncated
	}

	return d.header.UnmarshalBinary(tmp[:])
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	if err := d.readHeader(r); err != nil {
		return err
	}

	if !d.header.Format.Known() {
		return fmt.Errorf("%w: code %d", ErrUnknownFormat, d.header.Format)
	}

	if configOnly {
		return nil
	}

	payload, err := ioutil.ReadAll(d.r)
	if err != nil {
		return err
	}

	d.img, err = decodePayload(d.header.Format, d.header.Width, d.header.Height, payload, d.fallback)
	return err
}

// decodePayload converts a pixel payload into an RGBA pixel buffer.
// fallback, which may be nil, substitutes for the stored palette of an
// indexed payload that carries none.
func decodePayload(f ColorFormat, width, height int, payload []byte, fallback color.Palette) (*image.NRGBA, error) {
	if f.Indexed() {
		candidates := resolveLayouts(f, width, height, payload)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s %dx%d with %d byte payload", ErrInvalidLayout, f, width, height, len(payload))
		}

		// resolveLayouts orders candidates full, padded, bare; a tie
		// goes to the first.
		c := candidates[0]

		p := c.Palette
		if len(p) == 0 {
			p = fallback
		}
		if len(p) == 0 {
			p = FallbackPalette(f)
		}

		return decodeBitmap(f, width, height, p, c.Bitmap), nil
	}

	// A "true color" payload sized for the other direct RGB encoding
	// is a historical single-code container; honour the size.
	switch {
	case f == FormatRGB565 && len(payload) == PayloadSize(FormatRGB888, width, height):
		f = FormatRGB888
	case f == FormatRGB888 && len(payload) == PayloadSize(FormatRGB565, width, height):
		f = FormatRGB565
	}

	if len(payload) != PayloadSize(f, width, height) {
		return nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, have %d", ErrPayloadSize, f, width, height, PayloadSize(f, width, height), len(payload))
	}

	m := image.NewNRGBA(image.Rect(0, 0, width, height))

	switch f {
	case FormatRGB565:
		for i := 0; i < width*height; i++ {
			v := binary.LittleEndian.Uint16(payload[i<<1:])
			m.Pix[i<<2+0] = expand5(uint8(v >> 11 & 0x1f))
			m.Pix[i<<2+1] = expand6(uint8(v >> 5 & 0x3f))
			m.Pix[i<<2+2] = expand5(uint8(v & 0x1f))
			m.Pix[i<<2+3] = 0xff
		}
	case FormatRGB888:
		for i := 0; i < width*height; i++ {
			copy(m.Pix[i<<2:], payload[i*3:i*3+3])
			m.Pix[i<<2+3] = 0xff
		}
	case FormatRGBA8888:
		copy(m.Pix, payload)
	}

	return m, nil
}

// decodeBitmap unpacks a row-padded bitmap of palette indices. Indices
// are most-significant-bit-first within each byte. Rows beyond the end
// of a short bitmap render as entry 0.
func decodeBitmap(f ColorFormat, width, height int, p color.Palette, bitmap []byte) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))

	bpp := f.BitsPerPixel()
	stride := rowBytes(f, width)
	mask := byte(1<<uint(bpp) - 1)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var idx byte

			if i := y*stride + x*bpp>>3; i < len(bitmap) {
				shift := uint(8 - bpp - x*bpp&7)
				idx = bitmap[i] >> shift & mask
			}

			c := p[0]
			if int(idx) < len(p) {
				c = p[idx]
			}

			nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
			o := m.PixOffset(x, y)
			m.Pix[o+0] = nrgba.R
			m.Pix[o+1] = nrgba.G
			m.Pix[o+2] = nrgba.B
			m.Pix[o+3] = nrgba.A
		}
	}

	return m
}

// expand5 widens a 5-bit channel to 8 bits by replicating the top bits
// into the vacated low bits.
func expand5(v uint8) uint8 {
	return v<<3 | v>>2
}

func expand6(v uint8) uint8 {
	return v<<2 | v>>4
}

// Decode reads an LVGL binary container from r and returns it as an
// image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.img, nil
}

// DecodeWithPalette is Decode with an explicit palette standing in for
// the conventional one applied to indexed containers that store no
// palette of their own.
func DecodeWithPalette(r io.Reader, fallback color.Palette) (image.Image, error) {
	d := decoder{fallback: fallback}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.img, nil
}

// DecodeConfig returns the color model and dimensions of a container
// without decoding any pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.header.Width,
		Height:     d.header.Height,
	}, nil
}
