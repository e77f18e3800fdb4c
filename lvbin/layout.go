package lvbin

import (
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

// Layout identifies one of the historical palette layout variants used
// by indexed containers.
type Layout int

const (
	// LayoutPalette is a full palette followed by the row-padded
	// bitmap.
	LayoutPalette Layout = iota

	// LayoutPaddedPalette carries one extra all-zero palette entry;
	// the bitmap is correspondingly shorter and missing rows render as
	// entry 0.
	LayoutPaddedPalette

	// LayoutNoPalette has no stored palette; the whole payload is
	// bitmap and a fallback palette applies.
	LayoutNoPalette

	// LayoutDirectColor is the single layout of a non-indexed payload:
	// one direct color value per pixel, no palette involved.
	LayoutDirectColor
)

var layoutNames = map[Layout]string{
	LayoutPalette:       "full palette",
	LayoutPaddedPalette: "padded palette",
	LayoutNoPalette:     "no palette",
	LayoutDirectColor:   "direct color",
}

func (l Layout) String() string {
	return layoutNames[l]
}

// LayoutCandidate is one structurally valid interpretation of an
// indexed payload. Palette is nil for the no-palette layout.
type LayoutCandidate struct {
	Layout  Layout
	Format  ColorFormat
	Width   int
	Height  int
	Palette color.Palette
	Bitmap  []byte
}

// Image renders the candidate. An indexed candidate storing no palette
// of its own renders with FallbackPalette; a direct-color candidate
// decodes its pixel values and can fail on a size mismatch.
func (c *LayoutCandidate) Image() (image.Image, error) {
	if !c.Format.Indexed() {
		return decodePayload(c.Format, c.Width, c.Height, c.Bitmap, nil)
	}

	p := c.Palette
	if p == nil {
		p = FallbackPalette(c.Format)
	}
	return decodeBitmap(c.Format, c.Width, c.Height, p, c.Bitmap), nil
}

// FallbackPalette returns the palette conventionally implied by an
// indexed container that stores none: entry 0 is the opaque white
// background and the last entry the opaque black foreground, with a
// linear ramp in between for the wider formats. Producers using a
// different convention should decode with DecodeWithPalette instead.
func FallbackPalette(f ColorFormat) color.Palette {
	n := f.PaletteEntries()
	if n < 2 {
		return nil
	}
	p := make(color.Palette, n)
	for i := range p {
		v := uint8(255 - i*255/(n-1))
		p[i] = color.NRGBA{v, v, v, 255}
	}
	return p
}

func parsePalette(b []byte) color.Palette {
	p := make(color.Palette, len(b)/paletteEntrySize)
	for i := range p {
		o := i * paletteEntrySize
		p[i] = color.NRGBA{b[o], b[o+1], b[o+2], b[o+3]}
	}
	return p
}

// resolveLayouts enumerates the palette layout variants that exactly
// explain the payload length, in decode preference order. A variant is
// only valid on exact equality; anything else is left to the caller to
// reject.
func resolveLayouts(f ColorFormat, width, height int, payload []byte) []LayoutCandidate {
	var candidates []LayoutCandidate

	bm := bitmapSize(f, width, height)
	ps := f.PaletteSize()

	// Full palette followed by the exact row-padded bitmap.
	if len(payload) == ps+bm {
		candidates = append(candidates, LayoutCandidate{
			Layout:  LayoutPalette,
			Format:  f,
			Width:   width,
			Height:  height,
			Palette: parsePalette(payload[:ps]),
			Bitmap:  payload[ps:],
		})
	}

	// One extra palette entry consuming what would otherwise be the
	// tail of the bitmap.
	if pb, bb := ps+paletteEntrySize, bm-paletteEntrySize; bb >= 0 && len(payload) == pb+bb {
		candidates = append(candidates, LayoutCandidate{
			Layout:  LayoutPaddedPalette,
			Format:  f,
			Width:   width,
			Height:  height,
			Palette: parsePalette(payload[:ps+paletteEntrySize]),
			Bitmap:  payload[ps+paletteEntrySize:],
		})
	}

	// No palette at all.
	if len(payload) == bm {
		candidates = append(candidates, LayoutCandidate{
			Layout: LayoutNoPalette,
			Format: f,
			Width:  width,
			Height: height,
			Bitmap: payload,
		})
	}

	return candidates
}

// Analyze reads a container and returns every structurally valid
// interpretation of its payload in decode preference order, without
// collapsing them. It is a diagnostic aid: an unknown format or a
// payload matching no layout variant yields an empty candidate list rather
// than an error, and only a missing header fails.
func Analyze(r io.Reader) (Header, []LayoutCandidate, error) {
	var d decoder
	if err := d.readHeader(r); err != nil {
		return Header{}, nil, err
	}

	payload, err := ioutil.ReadAll(r)
	if err != nil {
		return d.header, nil, err
	}

	h := d.header
	if !h.Format.Known() {
		return h, nil, nil
	}

	if h.Format.Indexed() {
		return h, resolveLayouts(h.Format, h.Width, h.Height, payload), nil
	}

	// Direct-color payloads have a single possible layout; report it
	// in the same shape so tooling has one path.
	return h, []LayoutCandidate{{
		Layout: LayoutDirectColor,
		Format: h.Format,
		Width:  h.Width,
		Height: h.Height,
		Bitmap: payload,
	}}, nil
}
