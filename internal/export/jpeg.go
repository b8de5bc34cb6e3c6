package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/haddock21/shape-editor/internal/engine"
)

// MaxRasterSide caps the longer side of a rasterized export.
const MaxRasterSide = 8192

// rasterPath forwards segments to a vector.Rasterizer. Each subpath is
// closed before the next starts, as filling requires.
type rasterPath struct {
	z    *vector.Rasterizer
	open bool
}

func (r *rasterPath) MoveTo(x, y float64) {
	if r.open {
		r.z.ClosePath()
	}
	r.z.MoveTo(float32(x), float32(y))
	r.open = true
}

func (r *rasterPath) LineTo(x, y float64) { r.z.LineTo(float32(x), float32(y)) }

func (r *rasterPath) QuadTo(cx, cy, x, y float64) {
	r.z.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}

func (r *rasterPath) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.z.CubeTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}

func (r *rasterPath) Close() {
	if r.open {
		r.z.ClosePath()
		r.open = false
	}
}

// Rasterize paints the commands into an image covering bounds at one pixel
// per scene unit, scaled down if a side would exceed MaxRasterSide.
func Rasterize(commands []engine.DrawCommand, bounds engine.Box) (*image.RGBA, error) {
	sw, sh := bounds.Width(), bounds.Height()
	if sw <= 0 || sh <= 0 {
		return nil, ErrEmptyBounds
	}
	scale := min(1, MaxRasterSide/math.Max(sw, sh))
	w := max(1, int(math.Ceil(sw*scale)))
	h := max(1, int(math.Ceil(sh*scale)))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	toImage := pageMatrix(bounds, scale, 0, 0)
	z := vector.NewRasterizer(w, h)

	for _, cmd := range commands {
		switch cmd.Op {
		case "clear":
			if c, ok := paintable(cmd.Fill); ok {
				draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
			}

		case "path":
			m := toImage.Multiply(cmd.Matrix())
			if c, ok := paintable(cmd.Fill); ok {
				z.Reset(w, h)
				sink := &rasterPath{z: z}
				walkPath(cmd.Path, m, sink)
				sink.Close()
				z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
			}
			if c, ok := paintable(cmd.Stroke); ok && cmd.StrokeWidth > 0 {
				var f flattener
				walkPath(cmd.Path, m, &f)
				z.Reset(w, h)
				for _, poly := range strokeOutline(f.lines, math.Max(cmd.StrokeWidth*scale, 1)) {
					fillPolygon(z, poly)
				}
				z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
			}
		}
	}
	return img, nil
}

func fillPolygon(z *vector.Rasterizer, poly []engine.Point) {
	if len(poly) < 3 {
		return
	}
	z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

// WriteJPEG rasterizes the commands and encodes them as JPEG.
func WriteJPEG(w io.Writer, commands []engine.DrawCommand, bounds engine.Box, quality int) error {
	img, err := Rasterize(commands, bounds)
	if err != nil {
		return err
	}
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

