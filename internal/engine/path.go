package engine

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Q", cx, cy, x, y],
// ["C", x1, y1, x2, y2, x, y] and ["Z"].
type PathCommand []interface{}

// Op returns the segment verb.
func (c PathCommand) Op() string {
	if len(c) == 0 {
		return ""
	}
	op, _ := c[0].(string)
	return op
}

// Args returns the numeric operands of the segment.
func (c PathCommand) Args() []float64 {
	if len(c) < 2 {
		return nil
	}
	out := make([]float64, 0, len(c)-1)
	for _, v := range c[1:] {
		out = append(out, toFloat64(v))
	}
	return out
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func moveTo(p Point) PathCommand { return PathCommand{"M", p.X, p.Y} }
func lineTo(p Point) PathCommand { return PathCommand{"L", p.X, p.Y} }

// k = 4 * (sqrt(2) - 1) / 3, the bezier approximation of a quarter circle.
const ellipseKappa = 0.5522847498

// RenderPath returns the outline of a geometry in scene coordinates.
func RenderPath(g Geometry) []PathCommand {
	switch g := g.(type) {
	case Line:
		return []PathCommand{moveTo(g.P0), lineTo(g.P1)}
	case Rectangle:
		corners := CornerHandles(boxOf(g.P0, g.Corner()))
		return polygonPath(corners[:])
	case Ellipse:
		rx, ry := g.Radii()
		return ellipsePath(g.P0, rx, ry)
	case Triangle:
		v := g.Vertices()
		return polygonPath(v[:])
	case Pentagon:
		return polygonPath(g.Vertices())
	case Polyline:
		return polylinePath(g.Points)
	case Curve:
		return curvePath(g.Points)
	}
	return nil
}

func polygonPath(pts []Point) []PathCommand {
	path := polylinePath(pts)
	if len(path) > 0 {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

func polylinePath(pts []Point) []PathCommand {
	if len(pts) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(pts))
	path = append(path, moveTo(pts[0]))
	for _, p := range pts[1:] {
		path = append(path, lineTo(p))
	}
	return path
}

// curvePath smooths the points with quadratics through segment midpoints,
// each previous point acting as control, then runs straight to the last point.
func curvePath(pts []Point) []PathCommand {
	if len(pts) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(pts)+1)
	path = append(path, moveTo(pts[0]))
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		mid := Point{(prev.X + cur.X) / 2, (prev.Y + cur.Y) / 2}
		path = append(path, PathCommand{"Q", prev.X, prev.Y, mid.X, mid.Y})
	}
	path = append(path, lineTo(pts[len(pts)-1]))
	return path
}

// ellipsePath approximates an ellipse with four cubic beziers.
func ellipsePath(c Point, rx, ry float64) []PathCommand {
	kx, ky := rx*ellipseKappa, ry*ellipseKappa
	x, y := c.X, c.Y
	return []PathCommand{
		{"M", x + rx, y},
		{"C", x + rx, y + ky, x + kx, y + ry, x, y + ry},
		{"C", x - kx, y + ry, x - rx, y + ky, x - rx, y},
		{"C", x - rx, y - ky, x - kx, y - ry, x, y - ry},
		{"C", x + kx, y - ry, x + rx, y - ky, x + rx, y},
		{"Z"},
	}
}

// circlePath is used for selection handles.
func circlePath(c Point, r float64) []PathCommand {
	return ellipsePath(c, r, r)
}

// TransformPath applies m to every coordinate pair of the path.
func TransformPath(path []PathCommand, m Matrix2D) []PathCommand {
	out := make([]PathCommand, len(path))
	for i, cmd := range path {
		args := cmd.Args()
		next := make(PathCommand, 1, len(cmd))
		next[0] = cmd.Op()
		for j := 0; j+1 < len(args); j += 2 {
			x, y := m.TransformPoint(args[j], args[j+1])
			next = append(next, x, y)
		}
		out[i] = next
	}
	return out
}
