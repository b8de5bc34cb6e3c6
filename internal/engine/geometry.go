package engine

import "math"

const (
	// HandleRadius is the pick radius around corner and rotation handles.
	HandleRadius = 6.0
	// HandleDrawRadius is the radius handles are drawn with.
	HandleDrawRadius = 5.0
	// RotationHandleOffset is how far above the bounding box the rotation handle sits.
	RotationHandleOffset = 20.0
	// LineHitTolerance is added to a line's stroke width when picking it.
	LineHitTolerance = 15.0
	// GridSize is the cell size of the background grid and of snapping.
	GridSize = 100.0
	// PentagonSides is the number of vertices of the polygon tool.
	PentagonSides = 5
)

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Box is an axis-aligned bounding box.
type Box struct {
	XMin float64 `json:"xMin"`
	YMin float64 `json:"yMin"`
	XMax float64 `json:"xMax"`
	YMax float64 `json:"yMax"`
}

// boxOf returns the box spanned by two corners given in any order.
func boxOf(a, b Point) Box {
	return Box{
		XMin: min(a.X, b.X),
		YMin: min(a.Y, b.Y),
		XMax: max(a.X, b.X),
		YMax: max(a.Y, b.Y),
	}
}

// Contains checks if a point is inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

func (b Box) Width() float64  { return b.XMax - b.XMin }
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{(b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		XMin: min(b.XMin, other.XMin),
		YMin: min(b.YMin, other.YMin),
		XMax: max(b.XMax, other.XMax),
		YMax: max(b.YMax, other.YMax),
	}
}

// Pad grows the box by d on every side.
func (b Box) Pad(d float64) Box {
	return Box{b.XMin - d, b.YMin - d, b.XMax + d, b.YMax + d}
}

func (b Box) Translate(d Point) Box {
	return Box{b.XMin + d.X, b.YMin + d.Y, b.XMax + d.X, b.YMax + d.Y}
}

func pointsBounds(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		b.XMin = min(b.XMin, p.X)
		b.YMin = min(b.YMin, p.Y)
		b.XMax = max(b.XMax, p.X)
		b.YMax = max(b.YMax, p.Y)
	}
	return b
}

// Bounds computes the axis-aligned bounding box of a geometry, ignoring rotation.
func Bounds(g Geometry) Box {
	switch g := g.(type) {
	case Line:
		return boxOf(g.P0, g.P1)
	case Rectangle:
		return boxOf(g.P0, g.Corner())
	case Ellipse:
		rx, ry := g.Radii()
		return Box{g.P0.X - rx, g.P0.Y - ry, g.P0.X + rx, g.P0.Y + ry}
	case Triangle:
		return boxOf(g.P0, g.P1)
	case Pentagon:
		return pointsBounds(g.Vertices())
	case Polyline:
		return pointsBounds(g.Points)
	case Curve:
		return pointsBounds(g.Points)
	}
	return Box{}
}

// ShapeBounds is Bounds of the shape's geometry.
func ShapeBounds(s *Shape) Box {
	return Bounds(s.Geometry)
}

// RenderedBounds is the axis-aligned box of the shape as drawn, rotation
// included.
func RenderedBounds(s *Shape) Box {
	return ShapeTransform(s).TransformBox(ShapeBounds(s))
}

// SceneBounds is the union of the rendered bounds of all shapes. ok is
// false for an empty scene.
func SceneBounds(shapes []*Shape) (b Box, ok bool) {
	for i, s := range shapes {
		if i == 0 {
			b = RenderedBounds(s)
			continue
		}
		b = b.Union(RenderedBounds(s))
	}
	return b, len(shapes) > 0
}

// HitTest reports whether p picks the shape. Lines are picked within
// stroke width plus LineHitTolerance of the segment; every other kind is
// picked anywhere inside its bounding box.
func HitTest(s *Shape, p Point, defaultStrokeWidth float64) bool {
	if l, ok := s.Geometry.(Line); ok {
		w := s.Style.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		return segmentDistance(p, l.P0, l.P1) <= w+LineHitTolerance
	}
	return ShapeBounds(s).Contains(p)
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = max(0, min(1, t))
	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

// CornerHandles returns the resize handles in order top-left, top-right,
// bottom-right, bottom-left.
func CornerHandles(b Box) [4]Point {
	return [4]Point{
		{b.XMin, b.YMin},
		{b.XMax, b.YMin},
		{b.XMax, b.YMax},
		{b.XMin, b.YMax},
	}
}

// OppositeHandle returns the index of the diagonally opposite corner.
func OppositeHandle(i int) int {
	return (i + 2) % 4
}

// RotationHandle returns the position of the rotation grip.
func RotationHandle(b Box) Point {
	return Point{(b.XMin + b.XMax) / 2, b.YMin - RotationHandleOffset}
}

// HandleAt returns the index of the corner handle within HandleRadius of p, or -1.
func HandleAt(b Box, p Point) int {
	for i, h := range CornerHandles(b) {
		if h.Dist(p) <= HandleRadius {
			return i
		}
	}
	return -1
}

// mapPoints applies f to every coordinate of g and returns the new geometry.
// Point slices are always copied.
func mapPoints(g Geometry, f func(Point) Point) Geometry {
	switch g := g.(type) {
	case Line:
		return Line{f(g.P0), f(g.P1)}
	case Rectangle:
		return Rectangle{P0: f(g.P0), P1: f(g.P1), Square: g.Square}
	case Ellipse:
		return Ellipse{P0: f(g.P0), P1: f(g.P1), Circle: g.Circle}
	case Triangle:
		return Triangle{f(g.P0), f(g.P1)}
	case Pentagon:
		return Pentagon{f(g.P0), f(g.P1)}
	case Polyline:
		return Polyline{Points: mapSlice(g.Points, f)}
	case Curve:
		return Curve{Points: mapSlice(g.Points, f)}
	}
	return g
}

func mapSlice(pts []Point, f func(Point) Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

// CloneGeometry returns a deep copy of g.
func CloneGeometry(g Geometry) Geometry {
	return mapPoints(g, func(p Point) Point { return p })
}

// TranslateGeometry moves every coordinate by d.
func TranslateGeometry(g Geometry, d Point) Geometry {
	return mapPoints(g, func(p Point) Point { return p.Add(d) })
}

// ScaleGeometry scales every coordinate relative to origin.
func ScaleGeometry(g Geometry, origin Point, sx, sy float64) Geometry {
	return mapPoints(g, func(p Point) Point {
		return Point{origin.X + (p.X-origin.X)*sx, origin.Y + (p.Y-origin.Y)*sy}
	})
}

// SnapGeometry moves g so the top-left of its bounding box lands on the
// nearest multiple of cell.
func SnapGeometry(g Geometry, cell float64) Geometry {
	b := Bounds(g)
	d := Point{
		X: math.Round(b.XMin/cell)*cell - b.XMin,
		Y: math.Round(b.YMin/cell)*cell - b.YMin,
	}
	return TranslateGeometry(g, d)
}

// ResizeGeometry drags corner handle of g's bounding box to pos while the
// opposite corner stays fixed. Lines move the endpoint nearest the handle;
// ellipses and pentagons take pos as their second anchor.
func ResizeGeometry(g Geometry, handle int, pos Point) Geometry {
	corners := CornerHandles(Bounds(g))
	h := corners[handle]
	opp := corners[OppositeHandle(handle)]

	switch g := g.(type) {
	case Line:
		if g.P0.Dist(h) <= g.P1.Dist(h) {
			return Line{pos, g.P1}
		}
		return Line{g.P0, pos}
	case Ellipse:
		return Ellipse{P0: g.P0, P1: pos, Circle: g.Circle}
	case Pentagon:
		return Pentagon{g.P0, pos}
	case Rectangle:
		if g.Square {
			// Re-anchor on the fixed corner; Corner keeps each axis's drag direction.
			return Rectangle{P0: opp, P1: pos, Square: true}
		}
	}
	return ScaleGeometry(g, opp, scaleFactor(pos.X-opp.X, h.X-opp.X), scaleFactor(pos.Y-opp.Y, h.Y-opp.Y))
}

// A degenerate axis keeps its scale.
func scaleFactor(num, den float64) float64 {
	if den == 0 {
		return 1
	}
	return num / den
}

// AngleFrom returns the angle of p around pivot in radians.
func AngleFrom(pivot, p Point) float64 {
	return math.Atan2(p.Y-pivot.Y, p.X-pivot.X)
}
