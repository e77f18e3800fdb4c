package lvimg_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/lvimg"
	"github.com/bodgit/lvimg/lvbin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImagePassthrough(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m.SetNRGBA(1, 0, color.NRGBA{0x00, 0x00, 0x00, 0xff})
	m.SetNRGBA(0, 1, color.NRGBA{0x00, 0x00, 0x00, 0xff})

	want := new(bytes.Buffer)
	require.NoError(t, lvbin.Encode(want, m, lvbin.FormatIndexed1))

	got := new(bytes.Buffer)
	require.NoError(t, lvimg.EncodeImage(got, m, lvbin.FormatIndexed1))

	assert.Equal(t, want.Bytes(), got.Bytes())
}

func TestEncodeImageQuantizes(t *testing.T) {
	// A 16-step grayscale ramp cannot be indexed at 2 bits per pixel
	// without quantization.
	m := image.NewNRGBA(image.Rect(0, 0, 16, 1))
	for x := 0; x < 16; x++ {
		v := uint8(x * 17)
		m.SetNRGBA(x, 0, color.NRGBA{v, v, v, 0xff})
	}

	require.Error(t, lvbin.Encode(new(bytes.Buffer), m, lvbin.FormatIndexed2))

	b := new(bytes.Buffer)
	require.NoError(t, lvimg.EncodeImage(b, m, lvbin.FormatIndexed2))

	out, err := lvbin.Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Bounds(), out.Bounds())
}

func TestEncodeImageUnknownFormat(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	err := lvimg.EncodeImage(new(bytes.Buffer), m, lvbin.FormatUnknown)
	assert.True(t, errors.Is(err, lvbin.ErrUnknownFormat), "got %v", err)
}
