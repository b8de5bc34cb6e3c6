package engine

import (
	"fmt"
	"math"

	"github.com/haddock21/shape-editor/internal/document"
	"github.com/haddock21/shape-editor/internal/typeid"
)

// Kind names a shape variant.
type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindTriangle  Kind = "triangle"
	KindPentagon  Kind = "pentagon"
	KindPolyline  Kind = "polyline"
	KindCurve     Kind = "curve"
)

// Geometry is the closed set of shape variants. Geometry values are
// treated as immutable: kernel functions return new values.
type Geometry interface {
	Kind() Kind
	isGeometry()
}

// Line is a straight segment from P0 to P1.
type Line struct {
	P0, P1 Point
}

// Rectangle spans corner P0 to corner P1. Square forces equal sides.
type Rectangle struct {
	P0, P1 Point
	Square bool
}

// Ellipse is centered on P0; P1 gives the radii (or the radius if Circle).
type Ellipse struct {
	P0, P1 Point
	Circle bool
}

// Triangle has its base along y=P0.Y and its apex at the midpoint, y=P1.Y.
type Triangle struct {
	P0, P1 Point
}

// Pentagon is regular, centered on P0 with circumradius |P1-P0|.
type Pentagon struct {
	P0, P1 Point
}

type Polyline struct {
	Points []Point
}

type Curve struct {
	Points []Point
}

func (Line) Kind() Kind      { return KindLine }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Ellipse) Kind() Kind   { return KindEllipse }
func (Triangle) Kind() Kind  { return KindTriangle }
func (Pentagon) Kind() Kind  { return KindPentagon }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Curve) Kind() Kind     { return KindCurve }

func (Line) isGeometry()      {}
func (Rectangle) isGeometry() {}
func (Ellipse) isGeometry()   {}
func (Triangle) isGeometry()  {}
func (Pentagon) isGeometry()  {}
func (Polyline) isGeometry()  {}
func (Curve) isGeometry()     {}

// Corner returns the corner opposite P0, squared up if Square is set.
// The square keeps the drag direction of each axis.
func (r Rectangle) Corner() Point {
	if !r.Square {
		return r.P1
	}
	dx, dy := r.P1.X-r.P0.X, r.P1.Y-r.P0.Y
	side := min(math.Abs(dx), math.Abs(dy))
	return Point{r.P0.X + math.Copysign(side, dx), r.P0.Y + math.Copysign(side, dy)}
}

// Radii returns the horizontal and vertical radius.
func (e Ellipse) Radii() (float64, float64) {
	if e.Circle {
		r := e.P0.Dist(e.P1)
		return r, r
	}
	return math.Abs(e.P1.X - e.P0.X), math.Abs(e.P1.Y - e.P0.Y)
}

// Vertices returns the corners of the triangle.
func (t Triangle) Vertices() [3]Point {
	return [3]Point{
		t.P0,
		{t.P1.X, t.P0.Y},
		{(t.P0.X + t.P1.X) / 2, t.P1.Y},
	}
}

// Vertices returns the pentagon corners, the first pointing straight up.
func (p Pentagon) Vertices() []Point {
	r := p.P0.Dist(p.P1)
	out := make([]Point, PentagonSides)
	for i := range out {
		ang := float64(i)*(2*math.Pi/PentagonSides) - math.Pi/2
		out[i] = Point{p.P0.X + r*math.Cos(ang), p.P0.Y + r*math.Sin(ang)}
	}
	return out
}

// Style holds the paint properties of a shape.
type Style struct {
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Shape is one element of the scene. Identity is the pointer; ID
// correlates draw commands and wire messages.
type Shape struct {
	ID       string
	Geometry Geometry
	Style    Style
	Rotation float64 // radians about the bounding box center
	Selected bool
}

// NewShape creates a shape with a fresh ID.
func NewShape(g Geometry, style Style) *Shape {
	return &Shape{
		ID:       typeid.NewShapeID(),
		Geometry: g,
		Style:    style,
	}
}

// Clone returns a deep copy with a fresh ID.
func (s *Shape) Clone() *Shape {
	return &Shape{
		ID:       typeid.NewShapeID(),
		Geometry: CloneGeometry(s.Geometry),
		Style:    s.Style,
		Rotation: s.Rotation,
		Selected: s.Selected,
	}
}

// Fillable reports whether the shape's fill color is painted.
func (s *Shape) Fillable() bool {
	switch s.Geometry.(type) {
	case Line, Polyline, Curve:
		return false
	}
	return true
}

func fromPoints(pts []document.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{p.X, p.Y}
	}
	return out
}

func toPoints(pts []Point) []document.Point {
	out := make([]document.Point, len(pts))
	for i, p := range pts {
		out[i] = document.Point{X: p.X, Y: p.Y}
	}
	return out
}

// ShapeFromRecord converts a validated record. Records without an ID get one.
func ShapeFromRecord(r document.ShapeRecord) (*Shape, error) {
	tool, ok := r.Tool.Canonical()
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool %q", document.ErrInvalidScene, r.Tool)
	}

	var g Geometry
	if tool.UsesPoints() {
		pts := fromPoints(r.Points)
		if tool == document.ToolCurve {
			g = Curve{Points: pts}
		} else {
			g = Polyline{Points: pts}
		}
	} else {
		if r.X0 == nil || r.Y0 == nil || r.X1 == nil || r.Y1 == nil {
			return nil, fmt.Errorf("%w: %s missing anchors", document.ErrInvalidScene, tool)
		}
		a, b := r.Anchors()
		p0, p1 := Point{a.X, a.Y}, Point{b.X, b.Y}
		switch tool {
		case document.ToolLine:
			g = Line{p0, p1}
		case document.ToolRectangle:
			g = Rectangle{P0: p0, P1: p1, Square: r.IsSquare}
		case document.ToolEllipse:
			g = Ellipse{P0: p0, P1: p1, Circle: r.IsCircle}
		case document.ToolTriangle:
			g = Triangle{p0, p1}
		case document.ToolPolygon:
			g = Pentagon{p0, p1}
		}
	}

	id := r.ID
	if id == "" {
		id = typeid.NewShapeID()
	}
	return &Shape{
		ID:       id,
		Geometry: g,
		Style:    Style{Stroke: r.LineColor, Fill: r.FillColor, StrokeWidth: r.StrokeWidth},
		Rotation: r.Rotation,
	}, nil
}

// Record converts the shape to its serialization form.
func (s *Shape) Record() document.ShapeRecord {
	r := document.ShapeRecord{
		ID:          s.ID,
		LineColor:   s.Style.Stroke,
		FillColor:   s.Style.Fill,
		StrokeWidth: s.Style.StrokeWidth,
		Rotation:    s.Rotation,
		Selected:    s.Selected,
	}
	anchors := func(p0, p1 Point) {
		r.X0, r.Y0 = document.Float(p0.X), document.Float(p0.Y)
		r.X1, r.Y1 = document.Float(p1.X), document.Float(p1.Y)
	}

	switch g := s.Geometry.(type) {
	case Line:
		r.Tool = document.ToolLine
		anchors(g.P0, g.P1)
	case Rectangle:
		r.Tool = document.ToolRectangle
		r.IsSquare = g.Square
		anchors(g.P0, g.P1)
	case Ellipse:
		r.Tool = document.ToolEllipse
		r.IsCircle = g.Circle
		anchors(g.P0, g.P1)
	case Triangle:
		r.Tool = document.ToolTriangle
		anchors(g.P0, g.P1)
	case Pentagon:
		r.Tool = document.ToolPolygon
		anchors(g.P0, g.P1)
	case Polyline:
		r.Tool = document.ToolPolyline
		r.Points = toPoints(g.Points)
	case Curve:
		r.Tool = document.ToolCurve
		r.Points = toPoints(g.Points)
	}
	return r
}
