package engine

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertBox(t *testing.T, got, want Box) {
	t.Helper()
	assertNear(t, "xMin", got.XMin, want.XMin)
	assertNear(t, "yMin", got.YMin, want.YMin)
	assertNear(t, "xMax", got.XMax, want.XMax)
	assertNear(t, "yMax", got.YMax, want.YMax)
}

func TestBounds(t *testing.T) {
	pentR := 10.0
	tests := []struct {
		name string
		g    Geometry
		want Box
	}{
		{"line reversed", Line{Point{110, 60}, Point{10, 10}}, Box{10, 10, 110, 60}},
		{"rectangle", Rectangle{P0: Point{10, 10}, P1: Point{110, 60}}, Box{10, 10, 110, 60}},
		{"square keeps direction", Rectangle{P0: Point{100, 100}, P1: Point{40, 130}, Square: true}, Box{70, 100, 100, 130}},
		{"circle uses distance", Ellipse{P0: Point{50, 50}, P1: Point{53, 54}, Circle: true}, Box{45, 45, 55, 55}},
		{"ellipse uses deltas", Ellipse{P0: Point{50, 50}, P1: Point{20, 60}}, Box{20, 40, 80, 60}},
		{"triangle", Triangle{Point{0, 100}, Point{60, 20}}, Box{0, 20, 60, 100}},
		{
			"pentagon",
			Pentagon{Point{0, 0}, Point{0, -pentR}},
			Box{
				XMin: -pentR * math.Cos(math.Pi/10),
				YMin: -pentR,
				XMax: pentR * math.Cos(math.Pi/10),
				YMax: pentR * math.Sin(3*math.Pi/10),
			},
		},
		{"polyline", Polyline{Points: []Point{{5, 5}, {-3, 8}, {2, -1}}}, Box{-3, -1, 5, 8}},
		{"curve", Curve{Points: []Point{{0, 0}, {10, 20}}}, Box{0, 0, 10, 20}},
		{"zero area", Rectangle{P0: Point{3, 3}, P1: Point{3, 3}}, Box{3, 3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBox(t, Bounds(tt.g), tt.want)
		})
	}
}

func TestBounds_TranslationEquivariant(t *testing.T) {
	d := Point{37.5, -12.25}
	shapes := []Geometry{
		Line{Point{1, 2}, Point{30, 40}},
		Rectangle{P0: Point{10, 10}, P1: Point{-20, 45}, Square: true},
		Ellipse{P0: Point{50, 50}, P1: Point{70, 65}, Circle: true},
		Ellipse{P0: Point{50, 50}, P1: Point{70, 65}},
		Triangle{Point{0, 0}, Point{10, -10}},
		Pentagon{Point{5, 5}, Point{9, 1}},
		Polyline{Points: []Point{{0, 0}, {4, 9}, {-2, 3}}},
		Curve{Points: []Point{{0, 0}, {4, 9}, {-2, 3}}},
	}
	for _, g := range shapes {
		t.Run(string(g.Kind()), func(t *testing.T) {
			assertBox(t, Bounds(TranslateGeometry(g, d)), Bounds(g).Translate(d))
		})
	}
}

func TestHitTest(t *testing.T) {
	line := &Shape{Geometry: Line{Point{0, 0}, Point{100, 0}}, Style: Style{StrokeWidth: 2}}
	rect := &Shape{Geometry: Rectangle{P0: Point{10, 10}, P1: Point{110, 60}}}

	tests := []struct {
		name  string
		shape *Shape
		p     Point
		want  bool
	}{
		{"on line", line, Point{50, 0}, true},
		{"within tolerance", line, Point{50, 17}, true},
		{"outside tolerance", line, Point{50, 17.5}, false},
		{"past endpoint", line, Point{120, 0}, false},
		{"rect inside", rect, Point{50, 30}, true},
		{"rect edge", rect, Point{110, 60}, true},
		{"rect outside", rect, Point{111, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(tt.shape, tt.p, 1); got != tt.want {
				t.Errorf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHitTest_LineDefaultWidth(t *testing.T) {
	line := &Shape{Geometry: Line{Point{0, 0}, Point{100, 0}}}
	if !HitTest(line, Point{50, 19}, 4) {
		t.Error("expected hit using the default stroke width")
	}
	if HitTest(line, Point{50, 20}, 4) {
		t.Error("unexpected hit beyond default width plus tolerance")
	}
}

func TestHandles(t *testing.T) {
	b := Box{10, 20, 110, 70}
	corners := CornerHandles(b)
	want := [4]Point{{10, 20}, {110, 20}, {110, 70}, {10, 70}}
	if corners != want {
		t.Fatalf("CornerHandles = %v, want %v", corners, want)
	}
	for i := range corners {
		if corners[OppositeHandle(i)] != want[(i+2)%4] {
			t.Errorf("opposite of %d wrong", i)
		}
	}
	if got := RotationHandle(b); got != (Point{60, 0}) {
		t.Errorf("RotationHandle = %v", got)
	}
	if got := HandleAt(b, Point{114, 74}); got != 2 {
		t.Errorf("HandleAt near bottom-right = %d", got)
	}
	if got := HandleAt(b, Point{60, 45}); got != -1 {
		t.Errorf("HandleAt center = %d", got)
	}
}

func TestResizeGeometry_OppositeCornerFixed(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		pos  Point
	}{
		{"rectangle", Rectangle{P0: Point{10, 10}, P1: Point{110, 60}}, Point{200, 150}},
		{"square", Rectangle{P0: Point{0, 0}, P1: Point{100, 50}, Square: true}, Point{200, 150}},
		{"square shrink", Rectangle{P0: Point{0, 0}, P1: Point{100, 50}, Square: true}, Point{-20, -10}},
		{"square flip", Rectangle{P0: Point{0, 0}, P1: Point{100, 50}, Square: true}, Point{-50, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for handle := 0; handle < 4; handle++ {
				opp := CornerHandles(Bounds(tt.g))[OppositeHandle(handle)]
				after := CornerHandles(Bounds(ResizeGeometry(tt.g, handle, tt.pos)))

				found := false
				for _, c := range after {
					if math.Abs(c.X-opp.X) < epsilon && math.Abs(c.Y-opp.Y) < epsilon {
						found = true
					}
				}
				if !found {
					t.Errorf("handle %d: opposite corner %v moved, corners now %v", handle, opp, after)
				}
			}
		})
	}
}

func TestResizeGeometry_SquareFromTopLeft(t *testing.T) {
	square := Rectangle{P0: Point{0, 0}, P1: Point{100, 50}, Square: true}

	// box 0..50, bottom-right (50,50) is fixed
	assertBox(t, Bounds(ResizeGeometry(square, 0, Point{-20, -10})), Box{-10, -10, 50, 50})
	assertBox(t, Bounds(ResizeGeometry(square, 0, Point{-50, 10})), Box{10, 10, 50, 50})

	resized, ok := ResizeGeometry(square, 0, Point{-20, -10}).(Rectangle)
	if !ok || !resized.Square {
		t.Errorf("resized square = %#v", resized)
	}
}

func TestSceneBounds_IncludesRotation(t *testing.T) {
	rect := NewShape(Rectangle{P0: Point{0, 0}, P1: Point{100, 50}}, Style{})
	rect.Rotation = math.Pi / 2

	assertBox(t, ShapeBounds(rect), Box{0, 0, 100, 50})
	assertBox(t, RenderedBounds(rect), Box{25, -25, 75, 75})

	line := NewShape(Line{Point{200, 0}, Point{210, 10}}, Style{})
	b, ok := SceneBounds([]*Shape{rect, line})
	if !ok {
		t.Fatal("SceneBounds reported an empty scene")
	}
	assertBox(t, b, Box{25, -25, 210, 75})

	if _, ok := SceneBounds(nil); ok {
		t.Error("empty scene reported bounds")
	}
}

func TestResizeGeometry_BottomRight(t *testing.T) {
	rect := Rectangle{P0: Point{10, 10}, P1: Point{110, 60}}
	got := ResizeGeometry(rect, 2, Point{210, 110})
	assertBox(t, Bounds(got), Box{10, 10, 210, 110})

	poly := Polyline{Points: []Point{{0, 0}, {10, 5}, {20, 10}}}
	got = ResizeGeometry(poly, 2, Point{40, 40})
	pts := got.(Polyline).Points
	assertNear(t, "mid x", pts[1].X, 20)
	assertNear(t, "mid y", pts[1].Y, 20)
	if poly.Points[1] != (Point{10, 5}) {
		t.Error("source geometry was mutated")
	}
}

func TestResizeGeometry_SpecialKinds(t *testing.T) {
	line := Line{Point{0, 0}, Point{100, 50}}
	got := ResizeGeometry(line, 2, Point{120, 80}).(Line)
	if got.P0 != (Point{0, 0}) || got.P1 != (Point{120, 80}) {
		t.Errorf("line resize = %+v", got)
	}

	circle := Ellipse{P0: Point{50, 50}, P1: Point{60, 50}, Circle: true}
	gotE := ResizeGeometry(circle, 0, Point{20, 50}).(Ellipse)
	if gotE.P0 != circle.P0 || gotE.P1 != (Point{20, 50}) || !gotE.Circle {
		t.Errorf("circle resize = %+v", gotE)
	}

	flat := Polyline{Points: []Point{{0, 0}, {10, 0}}}
	gotP := ResizeGeometry(flat, 2, Point{20, 30}).(Polyline)
	assertNear(t, "flat axis keeps scale", gotP.Points[1].Y, 0)
	assertNear(t, "x scaled", gotP.Points[1].X, 20)
}

func TestSnapGeometry(t *testing.T) {
	g := Rectangle{P0: Point{149, 51}, P1: Point{249, 101}}
	b := Bounds(SnapGeometry(g, GridSize))
	assertBox(t, b, Box{100, 100, 200, 150})
}

func TestAngleFrom(t *testing.T) {
	assertNear(t, "east", AngleFrom(Point{0, 0}, Point{5, 0}), 0)
	assertNear(t, "south", AngleFrom(Point{0, 0}, Point{0, 5}), math.Pi/2)
}
