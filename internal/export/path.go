package export

import (
	"math"

	"github.com/haddock21/shape-editor/internal/engine"
)

// pathSink receives absolute path segments.
type pathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubeTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// walkPath maps every coordinate through m and feeds the segments to sink.
func walkPath(path []engine.PathCommand, m engine.Matrix2D, sink pathSink) {
	for _, cmd := range engine.TransformPath(path, m) {
		a := cmd.Args()
		switch cmd.Op() {
		case "M":
			if len(a) >= 2 {
				sink.MoveTo(a[0], a[1])
			}
		case "L":
			if len(a) >= 2 {
				sink.LineTo(a[0], a[1])
			}
		case "Q":
			if len(a) >= 4 {
				sink.QuadTo(a[0], a[1], a[2], a[3])
			}
		case "C":
			if len(a) >= 6 {
				sink.CubeTo(a[0], a[1], a[2], a[3], a[4], a[5])
			}
		case "Z":
			sink.Close()
		}
	}
}

// pageMatrix maps scene coordinates inside bounds to output coordinates:
// scaled by s and shifted so bounds' top-left lands on (offX, offY).
func pageMatrix(bounds engine.Box, s, offX, offY float64) engine.Matrix2D {
	return engine.Translate(offX, offY).
		Multiply(engine.Scale(s, s)).
		Multiply(engine.Translate(-bounds.XMin, -bounds.YMin))
}

const curveSteps = 16

type polyline struct {
	points []engine.Point
	closed bool
}

// flattener turns a path into polylines for stroking.
type flattener struct {
	lines []polyline
	pen   engine.Point
}

func (f *flattener) current() *polyline {
	if len(f.lines) == 0 {
		f.lines = append(f.lines, polyline{points: []engine.Point{f.pen}})
	}
	return &f.lines[len(f.lines)-1]
}

func (f *flattener) MoveTo(x, y float64) {
	f.pen = engine.Point{X: x, Y: y}
	f.lines = append(f.lines, polyline{points: []engine.Point{f.pen}})
}

func (f *flattener) LineTo(x, y float64) {
	f.pen = engine.Point{X: x, Y: y}
	l := f.current()
	l.points = append(l.points, f.pen)
}

func (f *flattener) QuadTo(cx, cy, x, y float64) {
	p0 := f.pen
	l := f.current()
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		l.points = append(l.points, engine.Point{
			X: u*u*p0.X + 2*u*t*cx + t*t*x,
			Y: u*u*p0.Y + 2*u*t*cy + t*t*y,
		})
	}
	f.pen = engine.Point{X: x, Y: y}
}

func (f *flattener) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p0 := f.pen
	l := f.current()
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		l.points = append(l.points, engine.Point{
			X: u*u*u*p0.X + 3*u*u*t*c1x + 3*u*t*t*c2x + t*t*t*x,
			Y: u*u*u*p0.Y + 3*u*u*t*c1y + 3*u*t*t*c2y + t*t*t*y,
		})
	}
	f.pen = engine.Point{X: x, Y: y}
}

func (f *flattener) Close() {
	if len(f.lines) == 0 {
		return
	}
	l := &f.lines[len(f.lines)-1]
	l.closed = true
	f.pen = l.points[0]
}

// strokeOutline returns polygons covering a round-joined stroke of width w.
// Every polygon has the same winding so overlaps add up instead of cancelling.
func strokeOutline(lines []polyline, w float64) [][]engine.Point {
	hw := w / 2
	var out [][]engine.Point
	for _, l := range lines {
		pts := l.points
		if l.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		for i, p := range pts {
			out = append(out, disc(p, hw))
			if i == 0 {
				continue
			}
			q := pts[i-1]
			dx, dy := p.X-q.X, p.Y-q.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			nx, ny := -dy/length*hw, dx/length*hw
			out = append(out, []engine.Point{
				{X: q.X + nx, Y: q.Y + ny},
				{X: p.X + nx, Y: p.Y + ny},
				{X: p.X - nx, Y: p.Y - ny},
				{X: q.X - nx, Y: q.Y - ny},
			})
		}
	}
	return out
}

const discSegments = 12

// disc is wound the same way as the segment quads in strokeOutline.
func disc(c engine.Point, r float64) []engine.Point {
	out := make([]engine.Point, discSegments)
	for i := range out {
		a := -2 * math.Pi * float64(i) / discSegments
		out[i] = engine.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return out
}
