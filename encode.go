package lvimg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/lvimg/lvbin"
	"github.com/ericpauley/go-quantize/quantize"
)

// EncodeImage writes m to w as a container in the given format. The
// codec itself refuses images with more colors than an indexed palette
// can hold, so true-color input for an indexed target is first reduced
// with a median-cut quantizer.
func EncodeImage(w io.Writer, m image.Image, f lvbin.ColorFormat) error {
	buf := new(bytes.Buffer)

	err := lvbin.Encode(buf, m, f)
	if errors.Is(err, lvbin.ErrTooManyColors) {
		q := quantize.MedianCutQuantizer{}
		b := m.Bounds()

		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, f.PaletteEntries()), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)

		buf.Reset()
		err = lvbin.Encode(buf, pm, f)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}
