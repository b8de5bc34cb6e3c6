package document

import "github.com/haddock21/shape-editor/internal/typeid"

// NewSampleScene returns a small scene with one shape of each kind.
func NewSampleScene() []ShapeRecord {
	anchors := func(tool Tool, x0, y0, x1, y1 float64) ShapeRecord {
		return ShapeRecord{
			ID:          typeid.NewShapeID(),
			Tool:        tool,
			X0:          Float(x0),
			Y0:          Float(y0),
			X1:          Float(x1),
			Y1:          Float(y1),
			LineColor:   "#000000",
			FillColor:   "#ffffff",
			StrokeWidth: 2,
		}
	}

	rect := anchors(ToolRectangle, 40, 40, 200, 140)
	rect.FillColor = "#4a90d9"

	circle := anchors(ToolEllipse, 320, 100, 380, 100)
	circle.IsCircle = true
	circle.FillColor = "#f5a623"

	triangle := anchors(ToolTriangle, 460, 160, 600, 40)
	triangle.FillColor = "#7ed321"
	triangle.Rotation = 0.2

	pentagon := anchors(ToolPolygon, 120, 300, 120, 240)
	pentagon.FillColor = "#bd10e0"

	line := anchors(ToolLine, 260, 220, 420, 360)
	line.LineColor = "#d0021b"
	line.StrokeWidth = 4

	return []ShapeRecord{
		rect,
		circle,
		triangle,
		pentagon,
		line,
		{
			ID:          typeid.NewShapeID(),
			Tool:        ToolPolyline,
			Points:      []Point{{X: 480, Y: 240}, {X: 540, Y: 320}, {X: 600, Y: 250}, {X: 660, Y: 330}},
			LineColor:   "#000000",
			FillColor:   "#ffffff",
			StrokeWidth: 3,
		},
		{
			ID:          typeid.NewShapeID(),
			Tool:        ToolCurve,
			Points:      []Point{{X: 60, Y: 420}, {X: 160, Y: 360}, {X: 260, Y: 460}, {X: 360, Y: 400}},
			LineColor:   "#417505",
			FillColor:   "#ffffff",
			StrokeWidth: 3,
		},
	}
}
