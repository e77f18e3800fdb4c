package lvbin

// ColorFormat is the 5-bit color format code stored in the container
// header.
type ColorFormat uint8

const (
	// FormatUnknown is the zero value; it matches no pixel encoding.
	FormatUnknown ColorFormat = 0

	// FormatRGB565 stores each pixel as a little-endian 16-bit 5/6/5
	// value. This is the LVGL "true color" code at a 16-bit color
	// depth and by far the most common direct-color encoding.
	FormatRGB565 ColorFormat = 4

	// FormatRGBA8888 stores each pixel as four bytes R, G, B, A.
	FormatRGBA8888 ColorFormat = 5

	// FormatRGB888 stores each pixel as three bytes R, G, B.
	FormatRGB888 ColorFormat = 6

	// FormatIndexed1 through FormatIndexed8 store an RGBA palette
	// followed by a bitmap of 1, 2, 4 or 8-bit palette indices.
	FormatIndexed1 ColorFormat = 7
	FormatIndexed2 ColorFormat = 8
	FormatIndexed4 ColorFormat = 9
	FormatIndexed8 ColorFormat = 10
)

var formatNames = map[ColorFormat]string{
	FormatRGB565:   "RGB565",
	FormatRGBA8888: "RGBA8888",
	FormatRGB888:   "RGB888",
	FormatIndexed1: "I1",
	FormatIndexed2: "I2",
	FormatIndexed4: "I4",
	FormatIndexed8: "I8",
}

func (f ColorFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "UNKNOWN"
}

// Known reports whether f is one of the supported color formats.
func (f ColorFormat) Known() bool {
	_, ok := formatNames[f]
	return ok
}

// Indexed reports whether pixels are palette indices rather than direct
// color values.
func (f ColorFormat) Indexed() bool {
	return f >= FormatIndexed1 && f <= FormatIndexed8
}

// BitsPerPixel returns the width of one stored pixel, or zero for an
// unknown format.
func (f ColorFormat) BitsPerPixel() int {
	switch f {
	case FormatIndexed1:
		return 1
	case FormatIndexed2:
		return 2
	case FormatIndexed4:
		return 4
	case FormatIndexed8:
		return 8
	case FormatRGB565:
		return 16
	case FormatRGB888:
		return 24
	case FormatRGBA8888:
		return 32
	}
	return 0
}

// PaletteEntries returns the number of palette entries an indexed
// payload stores, or zero for direct-color formats.
func (f ColorFormat) PaletteEntries() int {
	if !f.Indexed() {
		return 0
	}
	return 1 << uint(f.BitsPerPixel())
}

// PaletteSize returns the size in bytes of a full stored palette.
func (f ColorFormat) PaletteSize() int {
	return f.PaletteEntries() * paletteEntrySize
}

// rowBytes is the stride of one bitmap row; rows are padded to a whole
// number of bytes independently rather than packed into one bitstream.
func rowBytes(f ColorFormat, width int) int {
	return (width*f.BitsPerPixel() + 7) >> 3
}

func bitmapSize(f ColorFormat, width, height int) int {
	return rowBytes(f, width) * height
}

// PayloadSize returns the expected payload length in bytes for an image
// of the given dimensions carrying a full palette.
func PayloadSize(f ColorFormat, width, height int) int {
	if f.Indexed() {
		return f.PaletteSize() + bitmapSize(f, width, height)
	}
	return width * height * f.BitsPerPixel() >> 3
}

// ValidSize reports whether size is a structurally valid payload length
// for an image of the given format and dimensions, under any of the
// layout variants for indexed formats.
func ValidSize(f ColorFormat, width, height, size int) bool {
	if !f.Known() {
		return false
	}
	if f.Indexed() {
		// The padded-palette variant trades palette bytes for bitmap
		// bytes, so it shares the full-palette total.
		bm := bitmapSize(f, width, height)
		return size == f.PaletteSize()+bm || size == bm
	}
	return size == PayloadSize(f, width, height)
}

// ParseFormat maps an LVGL color format constant name, or one of the
// short names returned by String, to its code.
func ParseFormat(name string) (ColorFormat, bool) {
	switch name {
	case "LV_IMG_CF_TRUE_COLOR", "RGB565":
		return FormatRGB565, true
	case "LV_IMG_CF_TRUE_COLOR_ALPHA", "RGBA8888", "RGBA":
		return FormatRGBA8888, true
	case "RGB888":
		return FormatRGB888, true
	case "LV_IMG_CF_INDEXED_1BIT", "I1":
		return FormatIndexed1, true
	case "LV_IMG_CF_INDEXED_2BIT", "I2":
		return FormatIndexed2, true
	case "LV_IMG_CF_INDEXED_4BIT", "I4":
		return FormatIndexed4, true
	case "LV_IMG_CF_INDEXED_8BIT", "I8":
		return FormatIndexed8, true
	}
	return FormatUnknown, false
}
