package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTool = errors.New("unknown tool")

// Tool is the active toolbar tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolTriangle  Tool = "triangle"
	ToolPolygon   Tool = "polygon"
	ToolPolyline  Tool = "polyline"
	ToolCurve     Tool = "curve"
)

var toolNames = map[string]Tool{
	"select":    ToolSelect,
	"line":      ToolLine,
	"rectangle": ToolRectangle,
	"square":    ToolRectangle,
	"ellipse":   ToolEllipse,
	"circle":    ToolEllipse,
	"triangle":  ToolTriangle,
	"polygon":   ToolPolygon,
	"polyline":  ToolPolyline,
	"poly-line": ToolPolyline,
	"curve":     ToolCurve,
}

// ParseTool maps a toolbar name, including the legacy aliases, to a Tool.
func ParseTool(name string) (Tool, error) {
	if tool, ok := toolNames[name]; ok {
		return tool, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Modifiers is the keyboard modifier state of an input event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
}

// Command is a tool-independent editing command.
type Command string

const (
	CmdUndo   Command = "undo"
	CmdRedo   Command = "redo"
	CmdDelete Command = "delete"
	CmdCopy   Command = "copy"
	CmdPaste  Command = "paste"
)

// CommandForKey maps a key press to a command: ctrl+z, ctrl+shift+z,
// Delete, ctrl+c and ctrl+v.
func CommandForKey(key string, mods Modifiers) (Command, bool) {
	if key == "Delete" {
		return CmdDelete, true
	}
	if !mods.Ctrl {
		return "", false
	}
	switch strings.ToLower(key) {
	case "z":
		if mods.Shift {
			return CmdRedo, true
		}
		return CmdUndo, true
	case "c":
		return CmdCopy, true
	case "v":
		return CmdPaste, true
	}
	return "", false
}

// Mode names an interaction state.
type Mode string

const (
	ModeIdle                 Mode = "idle"
	ModeDrawingPreview       Mode = "drawingPreview"
	ModeAccumulatingPolyline Mode = "accumulatingPolyline"
	ModeAccumulatingCurve    Mode = "accumulatingCurve"
	ModeDragging             Mode = "dragging"
	ModeResizing             Mode = "resizing"
	ModeRotating             Mode = "rotating"
)

// State is the closed set of interaction states. Exactly one is active.
type State interface {
	Mode() Mode
}

type Idle struct{}

// DrawingPreview is a two-anchor shape between pointer-down and pointer-up.
type DrawingPreview struct {
	Tool    Tool
	Anchor  Point
	Current Point
	Shift   bool
}

type AccumulatingPolyline struct {
	Points []Point
	Cursor Point
}

type AccumulatingCurve struct {
	Points []Point
	Cursor Point
}

// Dragging, Resizing and Rotating keep the geometry as it was when the
// gesture began; every move is computed from that snapshot.
type Dragging struct {
	Shape    *Shape
	Anchor   Point
	Snapshot Geometry
}

type Resizing struct {
	Shape    *Shape
	Handle   int
	Snapshot Geometry
}

type Rotating struct {
	Shape         *Shape
	Pivot         Point
	StartAngle    float64
	StartRotation float64
}

func (Idle) Mode() Mode                 { return ModeIdle }
func (DrawingPreview) Mode() Mode       { return ModeDrawingPreview }
func (AccumulatingPolyline) Mode() Mode { return ModeAccumulatingPolyline }
func (AccumulatingCurve) Mode() Mode    { return ModeAccumulatingCurve }
func (Dragging) Mode() Mode             { return ModeDragging }
func (Resizing) Mode() Mode             { return ModeResizing }
func (Rotating) Mode() Mode             { return ModeRotating }

// twoAnchorGeometry builds the shape a drawing tool produces between two
// pointer positions. Shift squares rectangles and rounds ellipses.
func twoAnchorGeometry(tool Tool, p0, p1 Point, shift bool) Geometry {
	switch tool {
	case ToolLine:
		return Line{p0, p1}
	case ToolRectangle:
		return Rectangle{P0: p0, P1: p1, Square: shift}
	case ToolEllipse:
		return Ellipse{P0: p0, P1: p1, Circle: shift}
	case ToolTriangle:
		return Triangle{p0, p1}
	case ToolPolygon:
		return Pentagon{p0, p1}
	}
	return nil
}

func appendPoint(pts []Point, p Point) []Point {
	// A double click delivers its position twice.
	if n := len(pts); n > 0 && pts[n-1] == p {
		return pts
	}
	return append(pts, p)
}

// PointerDown starts a gesture, or adds a vertex to a polyline or curve in progress.
func (e *Editor) PointerDown(pos Point, mods Modifiers) {
	switch st := e.state.(type) {
	case AccumulatingPolyline:
		st.Points = appendPoint(st.Points, pos)
		st.Cursor = pos
		e.state = st
		e.redrawPreview()
		return
	case AccumulatingCurve:
		st.Points = appendPoint(st.Points, pos)
		st.Cursor = pos
		e.state = st
		e.redrawPreview()
		return
	case Idle:
	default:
		// one gesture at a time
		return
	}

	switch e.tool {
	case ToolSelect:
		e.beginSelect(pos)
	case ToolPolyline:
		e.state = AccumulatingPolyline{Points: []Point{pos}, Cursor: pos}
		e.redrawPreview()
	case ToolCurve:
		e.state = AccumulatingCurve{Points: []Point{pos}, Cursor: pos}
		e.redrawPreview()
	default:
		e.state = DrawingPreview{Tool: e.tool, Anchor: pos, Current: pos, Shift: mods.Shift}
	}
}

// beginSelect starts a gesture on the shape under pos. Rotation grips of
// every shape are tried first, front to back; then the topmost hit shape
// is resized from a corner handle or dragged.
func (e *Editor) beginSelect(pos Point) {
	e.scene.DeselectAll()
	defer e.redraw()

	shapes := e.scene.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		b := ShapeBounds(s)
		if RotationHandle(b).Dist(pos) > HandleRadius {
			continue
		}
		pivot := b.Center()
		e.state = Rotating{
			Shape:         s,
			Pivot:         pivot,
			StartAngle:    AngleFrom(pivot, pos),
			StartRotation: s.Rotation,
		}
		e.scene.SelectOnly(s)
		return
	}

	s, ok := e.scene.TopmostAt(pos, e.defaultStrokeWidth)
	if !ok {
		return
	}
	if h := HandleAt(ShapeBounds(s), pos); h >= 0 {
		e.state = Resizing{Shape: s, Handle: h, Snapshot: CloneGeometry(s.Geometry)}
	} else {
		e.state = Dragging{Shape: s, Anchor: pos, Snapshot: CloneGeometry(s.Geometry)}
	}
	e.scene.SelectOnly(s)
}

// PointerMove updates the preview or the shape being transformed.
func (e *Editor) PointerMove(pos Point, mods Modifiers) {
	switch st := e.state.(type) {
	case DrawingPreview:
		st.Current = pos
		st.Shift = mods.Shift
		e.state = st
		e.redrawPreview()
	case AccumulatingPolyline:
		st.Cursor = pos
		e.state = st
		e.redrawPreview()
	case AccumulatingCurve:
		st.Cursor = pos
		e.state = st
		e.redrawPreview()
	case Dragging:
		g := TranslateGeometry(st.Snapshot, pos.Sub(st.Anchor))
		if e.snapToGrid && mods.Shift {
			g = SnapGeometry(g, GridSize)
		}
		st.Shape.Geometry = g
		e.redraw()
	case Resizing:
		st.Shape.Geometry = ResizeGeometry(st.Snapshot, st.Handle, pos)
		e.redraw()
	case Rotating:
		st.Shape.Rotation = st.StartRotation + (AngleFrom(st.Pivot, pos) - st.StartAngle)
		e.redraw()
	}
}

// PointerUp finishes a two-anchor drawing or a transform. Releasing where
// the drawing started discards it.
func (e *Editor) PointerUp(pos Point, mods Modifiers) {
	switch st := e.state.(type) {
	case DrawingPreview:
		e.state = Idle{}
		e.redrawPreview()
		if pos == st.Anchor {
			return
		}
		e.commit(NewShape(twoAnchorGeometry(st.Tool, st.Anchor, pos, mods.Shift), e.style))
	case Dragging, Resizing, Rotating:
		e.state = Idle{}
		e.redraw()
	}
}

// DoubleClick commits a polyline or curve with at least two points.
func (e *Editor) DoubleClick(pos Point) {
	var g Geometry
	switch st := e.state.(type) {
	case AccumulatingPolyline:
		if len(st.Points) < 2 {
			return
		}
		g = Polyline{Points: st.Points}
	case AccumulatingCurve:
		if len(st.Points) < 2 {
			return
		}
		g = Curve{Points: st.Points}
	default:
		return
	}
	e.state = Idle{}
	e.redrawPreview()
	e.commit(NewShape(g, e.style))
}

// commit adds a finished shape as the only selection and records it.
func (e *Editor) commit(s *Shape) {
	e.scene.Add(s)
	e.scene.SelectOnly(s)
	e.history.RecordAdd(s)
	e.redraw()
}

// previewGeometry is what the transient layer shows for the current state.
func (e *Editor) previewGeometry() Geometry {
	switch st := e.state.(type) {
	case DrawingPreview:
		return twoAnchorGeometry(st.Tool, st.Anchor, st.Current, st.Shift)
	case AccumulatingPolyline:
		return Polyline{Points: appendPoint(append([]Point(nil), st.Points...), st.Cursor)}
	case AccumulatingCurve:
		return Curve{Points: appendPoint(append([]Point(nil), st.Points...), st.Cursor)}
	}
	return nil
}

// Execute runs an editing command. It reports whether the scene changed.
func (e *Editor) Execute(cmd Command) bool {
	switch cmd {
	case CmdUndo:
		return e.Undo()
	case CmdRedo:
		return e.Redo()
	case CmdDelete:
		return e.DeleteSelected() > 0
	case CmdCopy:
		e.Copy()
		return false
	case CmdPaste:
		return e.Paste() > 0
	}
	return false
}

// KeyDown maps a key press to a command and runs it.
func (e *Editor) KeyDown(key string, mods Modifiers) bool {
	cmd, ok := CommandForKey(key, mods)
	if !ok {
		return false
	}
	return e.Execute(cmd)
}

func (e *Editor) Undo() bool {
	if !e.history.Undo(e.scene) {
		return false
	}
	e.redraw()
	return true
}

func (e *Editor) Redo() bool {
	if !e.history.Redo(e.scene) {
		return false
	}
	e.redraw()
	return true
}

// DeleteSelected removes the selected shapes as one history entry.
func (e *Editor) DeleteSelected() int {
	removed, indices := e.scene.RemoveWhere(func(s *Shape) bool { return s.Selected })
	if len(removed) == 0 {
		return 0
	}
	e.history.RecordDelete(removed, indices)
	e.redraw()
	return len(removed)
}

// Copy puts clones of the selection on the clipboard.
func (e *Editor) Copy() int {
	return e.scene.Copy()
}

// Paste adds offset clones of the clipboard as the new selection.
func (e *Editor) Paste() int {
	pasted := e.scene.Paste()
	if len(pasted) == 0 {
		return 0
	}
	e.history.RecordAdd(pasted...)
	e.redraw()
	return len(pasted)
}
