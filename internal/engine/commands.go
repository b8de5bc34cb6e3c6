package engine

import (
	"encoding/json"
)

const (
	BackgroundColor = "#979797"
	GridColor       = "#ffffff3a"
	SelectionColor  = "#ff7300"
	SelectionWidth  = 2.0
	HandleFill      = "white"
)

// PreviewStyle is used for shapes still being drawn.
var PreviewStyle = Style{Stroke: "black", Fill: "transparent", StrokeWidth: 1}

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "clear" or "path"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color, or the clear color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Width       float64       `json:"width,omitempty"`       // Clear extent
	Height      float64       `json:"height,omitempty"`      // Clear extent
}

// Matrix returns the command transform, identity when unset.
func (c DrawCommand) Matrix() Matrix2D {
	if len(c.Transform) != 6 {
		return Identity()
	}
	var m Matrix2D
	copy(m[:], c.Transform)
	return m
}

// Layer is one compiled draw command buffer. Revision increases on every
// recompile so hosts can skip unchanged layers.
type Layer struct {
	Revision uint64        `json:"revision"`
	Commands []DrawCommand `json:"commands"`
}

func (l *Layer) set(commands []DrawCommand) {
	l.Revision++
	l.Commands = commands
}

// RenderOptions control how a scene is compiled.
type RenderOptions struct {
	Width      float64
	Height     float64
	Background string
	ShowGrid   bool
	// Overlay draws selection chrome for selected shapes.
	Overlay bool
	// Default fills in empty style fields.
	Default Style
}

// CompileScene generates the persisted layer for the shapes.
// Commands are in painter's order (back to front).
func CompileScene(shapes []*Shape, opts RenderOptions) []DrawCommand {
	commands := []DrawCommand{{
		Op:     "clear",
		Fill:   opts.Background,
		Width:  opts.Width,
		Height: opts.Height,
	}}

	if opts.ShowGrid {
		commands = append(commands, gridCommand(opts.Width, opts.Height, GridSize))
	}

	for _, s := range shapes {
		commands = append(commands, shapeCommand(s, opts.Default))
		if opts.Overlay && s.Selected {
			commands = append(commands, selectionCommands(s)...)
		}
	}
	return commands
}

// CompilePreview generates the transient layer for an in-progress geometry.
func CompilePreview(g Geometry) []DrawCommand {
	if g == nil {
		return nil
	}
	cmd := DrawCommand{
		Op:          "path",
		Path:        RenderPath(g),
		Stroke:      PreviewStyle.Stroke,
		StrokeWidth: PreviewStyle.StrokeWidth,
	}
	return []DrawCommand{cmd}
}

func shapeCommand(s *Shape, def Style) DrawCommand {
	style := s.Style
	if style.Stroke == "" {
		style.Stroke = def.Stroke
	}
	if style.Fill == "" {
		style.Fill = def.Fill
	}
	if style.StrokeWidth <= 0 {
		style.StrokeWidth = def.StrokeWidth
	}

	cmd := DrawCommand{
		Op:          "path",
		ObjectID:    s.ID,
		Path:        RenderPath(s.Geometry),
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth,
	}
	if s.Fillable() {
		cmd.Fill = style.Fill
	}
	if m := ShapeTransform(s); !m.IsIdentity() {
		cmd.Transform = m.ToSlice()
	}
	return cmd
}

func gridCommand(width, height, cell float64) DrawCommand {
	var path []PathCommand
	for x := 0.0; x <= width; x += cell {
		path = append(path, PathCommand{"M", x, 0.0}, PathCommand{"L", x, height})
	}
	for y := 0.0; y <= height; y += cell {
		path = append(path, PathCommand{"M", 0.0, y}, PathCommand{"L", width, y})
	}
	return DrawCommand{Op: "path", Path: path, Stroke: GridColor, StrokeWidth: 1}
}

// selectionCommands draws the bounding box, the rotation grip and its
// stem, and the four corner handles. The overlay is axis-aligned, matching
// where handles are picked.
func selectionCommands(s *Shape) []DrawCommand {
	b := ShapeBounds(s)
	top := Point{(b.XMin + b.XMax) / 2, b.YMin}
	grip := RotationHandle(b)
	corners := CornerHandles(b)

	overlay := func(path []PathCommand, fill string) DrawCommand {
		return DrawCommand{
			Op:          "path",
			ObjectID:    s.ID,
			Path:        path,
			Fill:        fill,
			Stroke:      SelectionColor,
			StrokeWidth: SelectionWidth,
		}
	}

	commands := []DrawCommand{
		overlay([]PathCommand{moveTo(top), lineTo(grip)}, ""),
		overlay(circlePath(grip, HandleDrawRadius), ""),
		overlay(polygonPath(corners[:]), ""),
	}
	for _, h := range corners {
		commands = append(commands, overlay(circlePath(h, HandleDrawRadius), HandleFill))
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// BoxToJSON serializes a Box to JSON. A box with a non-finite edge is an
// error.
func BoxToJSON(b Box) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
