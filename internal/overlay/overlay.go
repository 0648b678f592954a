package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/aerolens/tagtracker/internal/tags"
)

// bgrImage exposes an interleaved BGR24 buffer as a mutable image so
// the font drawer can render straight into the frame.
type bgrImage struct {
	pix    []byte
	width  int
	height int
}

func (m *bgrImage) ColorModel() color.Model { return color.RGBAModel }

func (m *bgrImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

func (m *bgrImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return color.RGBA{}
	}
	off := (y*m.width + x) * 3
	return color.RGBA{R: m.pix[off+2], G: m.pix[off+1], B: m.pix[off+0], A: 255}
}

func (m *bgrImage) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	r, g, b, _ := c.RGBA()
	off := (y*m.width + x) * 3
	m.pix[off+0] = byte(b >> 8)
	m.pix[off+1] = byte(g >> 8)
	m.pix[off+2] = byte(r >> 8)
}

var outlineColor = color.RGBA{G: 255, A: 255}

// DrawDetections paints each tag's corner outline and its ID onto the
// BGR frame in place.
func DrawDetections(bgr []byte, width, height int, dets []tags.Detection) error {
	if len(bgr) != width*height*3 {
		return fmt.Errorf("overlay: frame is %d bytes, want %d", len(bgr), width*height*3)
	}

	img := &bgrImage{pix: bgr, width: width, height: height}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(outlineColor),
		Face: basicfont.Face7x13,
	}

	for _, d := range dets {
		for i := 0; i < 4; i++ {
			a := d.Corners[i]
			b := d.Corners[(i+1)%4]
			drawLine(img, int(a[0]), int(a[1]), int(b[0]), int(b[1]))
		}
		drawer.Dot = fixed.P(int(d.Center[0]), int(d.Center[1]))
		drawer.DrawString(fmt.Sprintf("#%d", d.ID))
	}
	return nil
}

// drawLine is a plain integer Bresenham segment; good enough for four
// outline edges per tag.
func drawLine(img *bgrImage, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.Set(x0, y0, outlineColor)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EncodeJPEG compresses a BGR frame for the web viewer.
func EncodeJPEG(bgr []byte, width, height int, quality int) ([]byte, error) {
	if len(bgr) != width*height*3 {
		return nil, fmt.Errorf("overlay: frame is %d bytes, want %d", len(bgr), width*height*3)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = bgr[i*3+2]
		img.Pix[i*4+1] = bgr[i*3+1]
		img.Pix[i*4+2] = bgr[i*3+0]
		img.Pix[i*4+3] = 255
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
