package figure

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// headerHeight is the strip reserved above composed panels for the caption.
const headerHeight = 20

// Canvas composes rendered panels into one figure.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a white canvas of the given size.
func NewCanvas(w, h int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// Place draws panel with its top-left corner at (x, y).
func (c *Canvas) Place(panel image.Image, x, y int) {
	b := panel.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.img, r, panel, b.Min, draw.Over)
}

// Label writes text with its baseline at (x, y).
func (c *Canvas) Label(text string, x, y int) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Image returns the composed image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Grid lays panels out row-major in cols columns under a caption.
// Every cell is sized to the largest panel.
func Grid(caption string, panels []image.Image, cols int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	cw, ch := 1, 1
	for _, p := range panels {
		b := p.Bounds()
		cw = max(cw, b.Dx())
		ch = max(ch, b.Dy())
	}
	rows := (len(panels) + cols - 1) / cols
	c := NewCanvas(cw*min(cols, max(len(panels), 1)), headerHeight+ch*max(rows, 1))
	for i, p := range panels {
		c.Place(p, (i%cols)*cw, headerHeight+(i/cols)*ch)
	}
	c.Label(caption, 8, headerHeight-6)
	return c
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
