package lvbin_test

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/bodgit/lvimg/lvbin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cmdPayload is the 36-byte payload of the command key icon: an 8-byte
// white/black palette followed by 28 bytes of row-padded bitmap. The
// same bytes also parse as a 12-byte palette with a short bitmap.
var cmdPayload = []byte{
	0xff, 0xff, 0xff, 0xff,
	0x00, 0x00, 0x00, 0xff,
	0x00, 0x00, 0x00, 0x00,
	0x18, 0x60,
	0x24, 0x90,
	0x24, 0x90,
	0x1f, 0xe0,
	0x04, 0x80,
	0x04, 0x80,
	0x1f, 0xe0,
	0x24, 0x90,
	0x24, 0x90,
	0x18, 0x60,
	0x00, 0x00,
	0x00, 0x00,
}

func cmdContainer() []byte {
	return append(append([]byte(nil), cmdHeader...), cmdPayload...)
}

func TestAnalyzeCmdIcon(t *testing.T) {
	h, candidates, err := lvbin.Analyze(bytes.NewReader(cmdContainer()))
	require.NoError(t, err)

	assert.Equal(t, lvbin.FormatIndexed1, h.Format)
	require.Len(t, candidates, 2)

	assert.Equal(t, lvbin.LayoutPalette, candidates[0].Layout)
	assert.Len(t, candidates[0].Palette, 2)
	assert.Len(t, candidates[0].Bitmap, 28)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, candidates[0].Palette[0])
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, candidates[0].Palette[1])

	assert.Equal(t, lvbin.LayoutPaddedPalette, candidates[1].Layout)
	assert.Len(t, candidates[1].Palette, 3)
	assert.Len(t, candidates[1].Bitmap, 24)
	assert.Equal(t, color.NRGBA{}, candidates[1].Palette[2])
}

func TestAnalyzeBitmapOnly(t *testing.T) {
	b, err := lvbin.Join(lvbin.Header{Format: lvbin.FormatIndexed1, Width: 14, Height: 14}, cmdPayload[8:])
	require.NoError(t, err)

	_, candidates, err := lvbin.Analyze(bytes.NewReader(b))
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, lvbin.LayoutNoPalette, candidates[0].Layout)
	assert.Nil(t, candidates[0].Palette)
	assert.Len(t, candidates[0].Bitmap, 28)
}

func TestAnalyzeNoValidLayout(t *testing.T) {
	// A payload matching none of the layout variants is reported as having
	// no candidates, not as an error.
	b, err := lvbin.Join(lvbin.Header{Format: lvbin.FormatIndexed1, Width: 14, Height: 14}, cmdPayload[1:])
	require.NoError(t, err)

	_, candidates, err := lvbin.Analyze(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestAnalyzeDirectColor(t *testing.T) {
	b, err := lvbin.Join(lvbin.Header{Format: lvbin.FormatRGB565, Width: 2, Height: 1}, []byte{0x00, 0xf8, 0xe0, 0x07})
	require.NoError(t, err)

	h, candidates, err := lvbin.Analyze(bytes.NewReader(b))
	require.NoError(t, err)

	assert.Equal(t, lvbin.FormatRGB565, h.Format)
	require.Len(t, candidates, 1)
	assert.Equal(t, lvbin.LayoutDirectColor, candidates[0].Layout)
	assert.Equal(t, "direct color", candidates[0].Layout.String())
	assert.Len(t, candidates[0].Bitmap, 4)

	// The candidate renders its pixel values rather than treating the
	// payload as palette indices.
	m, err := candidates[0].Image()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, m.At(0, 0))
	assert.Equal(t, color.NRGBA{0x00, 0xff, 0x00, 0xff}, m.At(1, 0))
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	h, candidates, err := lvbin.Analyze(bytes.NewReader([]byte{0x02, 0x38, 0xc0, 0x01, 0xde, 0xad}))
	require.NoError(t, err)

	assert.False(t, h.Format.Known())
	assert.Empty(t, candidates)
}

func TestAnalyzeTruncated(t *testing.T) {
	_, _, err := lvbin.Analyze(bytes.NewReader([]byte{0x07, 0x38}))
	assert.True(t, errors.Is(err, lvbin.ErrTruncated), "got %v", err)
}

func TestCandidateImage(t *testing.T) {
	_, candidates, err := lvbin.Analyze(bytes.NewReader(cmdContainer()))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// The padded-palette reading starts its bitmap one row group
	// later and runs out two rows early; missing rows render as the
	// background entry.
	m, err := candidates[1].Image()
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, m.At(3, 0))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, m.At(0, 0))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, m.At(3, 13))
}

func TestFallbackPalette(t *testing.T) {
	p := lvbin.FallbackPalette(lvbin.FormatIndexed1)
	require.Len(t, p, 2)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, p[0])
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, p[1])

	p = lvbin.FallbackPalette(lvbin.FormatIndexed2)
	require.Len(t, p, 4)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, p[0])
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, p[3])

	assert.Len(t, lvbin.FallbackPalette(lvbin.FormatIndexed8), 256)
	assert.Nil(t, lvbin.FallbackPalette(lvbin.FormatRGB565))
}
