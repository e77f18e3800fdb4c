package lvimg

import (
	"errors"
	"image"
	"image/png"
	"io"
)

// WritePNG writes m to w as a PNG, magnified by replicating each pixel
// scale times in both directions. No interpolation is performed.
func WritePNG(w io.Writer, m image.Image, scale int) error {
	if scale < 1 {
		return errors.New("lvimg: scale must be at least 1")
	}

	if scale > 1 {
		b := m.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := m.At(b.Min.X+x, b.Min.Y+y)
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						dst.Set(x*scale+dx, y*scale+dy, c)
					}
				}
			}
		}
		m = dst
	}

	return png.Encode(w, m)
}
