package renderer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/ivlev/shapeanim/internal/shape"
	"github.com/ivlev/shapeanim/internal/system"
	"github.com/ivlev/shapeanim/internal/timeline"
)

// kappa places cubic Bézier control points so four curves approximate an ellipse.
const kappa = 0.5522847498

// Raster draws shape snapshots of a canvas into images of a fixed size.
type Raster struct {
	Canvas     timeline.Bounds
	Width      int
	Height     int
	Background color.Color
}

// NewRaster returns a raster scaling canvas to width x height. A zero size
// keeps the canvas size.
func NewRaster(canvas timeline.Bounds, width, height int) *Raster {
	if width <= 0 {
		width = canvas.Width
	}
	if height <= 0 {
		height = canvas.Height
	}
	return &Raster{
		Canvas:     canvas,
		Width:      width,
		Height:     height,
		Background: color.White,
	}
}

// Render paints shapes in order over the background. The image comes from the
// shared pool; return it with system.PutImage once it is no longer used.
func (r *Raster) Render(shapes []shape.Shape) *image.RGBA {
	rect := image.Rect(0, 0, r.Width, r.Height)
	img := system.GetImage(rect)
	draw.Draw(img, rect, image.NewUniform(r.Background), image.Point{}, draw.Src)

	sx := float32(r.Width) / float32(max(r.Canvas.Width, 1))
	sy := float32(r.Height) / float32(max(r.Canvas.Height, 1))

	z := vector.NewRasterizer(r.Width, r.Height)
	for _, s := range shapes {
		if !s.Visible() {
			continue
		}
		z.Reset(r.Width, r.Height)
		z.DrawOp = draw.Over

		b := s.Bounds()
		x0, y0 := float32(b.Min.X)*sx, float32(b.Min.Y)*sy
		x1, y1 := float32(b.Max.X)*sx, float32(b.Max.Y)*sy

		switch s.Kind() {
		case shape.Oval:
			ellipse(z, x0, y0, x1, y1)
		case shape.Plus:
			w4, h4 := (x1-x0)/4, (y1-y0)/4
			box(z, x0+w4, y0, x1-w4, y1)
			box(z, x0, y0+h4, x1, y1-h4)
		default:
			box(z, x0, y0, x1, y1)
		}

		c := s.Color()
		fill := image.NewUniform(color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff})
		z.Draw(img, rect, fill, image.Point{})
	}
	return img
}

func box(z *vector.Rasterizer, x0, y0, x1, y1 float32) {
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
}

func ellipse(z *vector.Rasterizer, x0, y0, x1, y1 float32) {
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2, (y1-y0)/2
	kx, ky := rx*kappa, ry*kappa

	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}
