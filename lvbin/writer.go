package lvbin

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
)

type encoder struct {
	w io.Writer

	format ColorFormat
	width  int
	height int
}

func nrgbaAt(m image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
}

// derivePalette collects the distinct colors of m in first-seen scan
// order.
func derivePalette(m image.Image, max int) (color.Palette, error) {
	b := m.Bounds()

	var p color.Palette
	seen := make(map[color.NRGBA]struct{})

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgbaAt(m, x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == max {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyColors, max)
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}

	return p, nil
}

// padPalette pads p with all-zero entries up to the full stored size.
func padPalette(p color.Palette, entries int) color.Palette {
	for len(p) < entries {
		p = append(p, color.NRGBA{})
	}
	return p
}

func (e *encoder) writeHeader() error {
	h := Header{
		Format: e.format,
		Width:  e.width,
		Height: e.height,
	}
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func (e *encoder) writePalette(p color.Palette) error {
	tmp := make([]byte, len(p)*paletteEntrySize)
	for i, c := range p {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		o := i * paletteEntrySize
		tmp[o+0] = nrgba.R
		tmp[o+1] = nrgba.G
		tmp[o+2] = nrgba.B
		tmp[o+3] = nrgba.A
	}
	_, err := e.w.Write(tmp)
	return err
}

// writeBitmap packs palette indices most-significant-bit-first, one
// row-padded byte group per row with the padding bits zero-filled.
func (e *encoder) writeBitmap(m image.Image, p color.Palette) error {
	b := m.Bounds()

	index := make(map[color.NRGBA]byte, len(p))
	for i, c := range p {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		if _, ok := index[nrgba]; !ok {
			index[nrgba] = byte(i)
		}
	}

	bpp := e.format.BitsPerPixel()
	row := make([]byte, rowBytes(e.format, e.width))

	for y := 0; y < e.height; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < e.width; x++ {
			c := nrgbaAt(m, b.Min.X+x, b.Min.Y+y)
			idx, ok := index[c]
			if !ok {
				return fmt.Errorf("%w: %v at (%d,%d)", ErrUnmappablePixel, c, x, y)
			}
			shift := uint(8 - bpp - x*bpp&7)
			row[x*bpp>>3] |= idx << shift
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) writePixels(m image.Image) error {
	b := m.Bounds()

	var tmp []byte
	switch e.format {
	case FormatRGB565:
		tmp = make([]byte, 2)
	case FormatRGB888:
		tmp = make([]byte, 3)
	case FormatRGBA8888:
		tmp = make([]byte, 4)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgbaAt(m, x, y)

			switch e.format {
			case FormatRGB565:
				v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
				binary.LittleEndian.PutUint16(tmp, v)
			case FormatRGB888:
				tmp[0], tmp[1], tmp[2] = c.R, c.G, c.B
			case FormatRGBA8888:
				tmp[0], tmp[1], tmp[2], tmp[3] = c.R, c.G, c.B, c.A
			}

			if _, err := e.w.Write(tmp); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *encoder) encode(m image.Image, p color.Palette) error {
	if err := e.writeHeader(); err != nil {
		return err
	}

	if !e.format.Indexed() {
		return e.writePixels(m)
	}

	if err := e.writePalette(padPalette(p, e.format.PaletteEntries())); err != nil {
		return err
	}

	return e.writeBitmap(m, p)
}

// Encode writes the image m to w as an LVGL binary container in the
// given color format. For an indexed format the palette is taken from
// the image when it is an *image.Paletted and otherwise derived from
// its distinct colors; an image with more colors than the palette can
// hold fails with ErrTooManyColors rather than being quantized.
func Encode(w io.Writer, m image.Image, f ColorFormat) error {
	if !f.Known() {
		return fmt.Errorf("%w: code %d", ErrUnknownFormat, f)
	}

	var p color.Palette
	if f.Indexed() {
		max := f.PaletteEntries()
		if pm, ok := m.(*image.Paletted); ok {
			if len(pm.Palette) > max {
				return fmt.Errorf("%w: %d of %d", ErrTooManyColors, len(pm.Palette), max)
			}
			p = pm.Palette
		} else {
			var err error
			if p, err = derivePalette(m, max); err != nil {
				return err
			}
		}
	}

	return EncodeWithPalette(w, m, f, p)
}

// EncodeWithPalette is Encode with a caller-supplied palette. Pixels
// are mapped to palette indices by exact color equality only; a pixel
// color absent from the palette fails with ErrUnmappablePixel.
func EncodeWithPalette(w io.Writer, m image.Image, f ColorFormat, p color.Palette) error {
	if !f.Known() {
		return fmt.Errorf("%w: code %d", ErrUnknownFormat, f)
	}

	if f.Indexed() && len(p) > f.PaletteEntries() {
		return fmt.Errorf("%w: %d of %d", ErrTooManyColors, len(p), f.PaletteEntries())
	}

	b := m.Bounds()
	e := encoder{
		w:      w,
		format: f,
		width:  b.Dx(),
		height: b.Dy(),
	}

	return e.encode(m, p)
}
