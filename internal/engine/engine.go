package engine

import (
	"encoding/json"
	"fmt"

	"github.com/haddock21/shape-editor/internal/document"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	// ExportPadding is the margin around the scene in exported images.
	ExportPadding = 20.0
	// ExportBackground is painted behind exported scenes.
	ExportBackground = "white"
)

// DefaultStyle is the toolbar style of a fresh editor.
var DefaultStyle = Style{Stroke: "#000000", Fill: "#ffffff", StrokeWidth: 1}

// Options configure a new Editor. Zero fields take defaults.
type Options struct {
	Width      float64
	Height     float64
	Style      Style
	ShowGrid   bool
	SnapToGrid bool
}

// Editor owns one scene, its history, the interaction state machine and
// the two draw layers. It is not safe for concurrent use.
type Editor struct {
	scene   *Scene
	history *History
	state   State

	// Toolbar state
	tool       Tool
	style      Style
	showGrid   bool
	snapToGrid bool

	// Viewport
	width  float64
	height float64

	defaultStrokeWidth float64

	persisted Layer
	transient Layer
}

// NewEditor creates an editor with an empty scene and the select tool.
func NewEditor(opts Options) *Editor {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Style == (Style{}) {
		opts.Style = DefaultStyle
	}
	if opts.Style.StrokeWidth <= 0 {
		opts.Style.StrokeWidth = DefaultStyle.StrokeWidth
	}

	e := &Editor{
		scene:              NewScene(),
		history:            NewHistory(),
		state:              Idle{},
		tool:               ToolSelect,
		style:              opts.Style,
		showGrid:           opts.ShowGrid,
		snapToGrid:         opts.SnapToGrid,
		width:              opts.Width,
		height:             opts.Height,
		defaultStrokeWidth: opts.Style.StrokeWidth,
	}
	e.redraw()
	return e
}

// --- Commands (host → editor) ---

// SetTool switches the active tool. Any drawing in progress is discarded.
func (e *Editor) SetTool(tool Tool) {
	e.tool = tool
	switch e.state.(type) {
	case DrawingPreview, AccumulatingPolyline, AccumulatingCurve:
		e.state = Idle{}
		e.redrawPreview()
	}
}

// SetStyle changes the style used for new shapes and restyles the
// selected shapes. It returns how many shapes changed.
func (e *Editor) SetStyle(style Style) int {
	e.style = style
	if style.StrokeWidth > 0 {
		e.defaultStrokeWidth = style.StrokeWidth
	}

	changed := 0
	for _, s := range e.scene.Selected() {
		if s.Style != style {
			s.Style = style
			changed++
		}
	}
	e.redraw()
	return changed
}

// SetGrid toggles the background grid and shift-snapping to it.
func (e *Editor) SetGrid(show, snap bool) {
	e.showGrid = show
	e.snapToGrid = snap
	e.redraw()
}

// Resize sets the viewport size and redraws.
func (e *Editor) Resize(width, height float64) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
	e.redraw()
}

// LoadScene replaces the scene wholesale. Invalid input leaves the editor
// untouched and returns an error wrapping document.ErrInvalidScene.
func (e *Editor) LoadScene(records []document.ShapeRecord) error {
	batch := append([]document.ShapeRecord(nil), records...)
	if err := document.Validate(batch); err != nil {
		return err
	}

	shapes := make([]*Shape, 0, len(batch))
	for i, r := range batch {
		s, err := ShapeFromRecord(r)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}

	e.scene.Replace(shapes)
	e.history.Reset()
	e.state = Idle{}
	e.redrawPreview()
	e.redraw()
	return nil
}

// LoadSceneJSON decodes and loads a JSON array of shape records.
func (e *Editor) LoadSceneJSON(data []byte) error {
	records, err := document.Decode(data)
	if err != nil {
		return err
	}
	return e.LoadScene(records)
}

// ClearScene removes every shape and forgets the history.
func (e *Editor) ClearScene() {
	e.scene.Clear()
	e.history.Reset()
	e.state = Idle{}
	e.redrawPreview()
	e.redraw()
}

// --- Queries (host ← editor) ---

// ExportScene deselects everything and returns the scene as records.
func (e *Editor) ExportScene() []document.ShapeRecord {
	e.scene.DeselectAll()
	e.redraw()

	records := make([]document.ShapeRecord, 0, e.scene.Len())
	for _, s := range e.scene.Shapes() {
		records = append(records, s.Record())
	}
	return records
}

// ExportSceneJSON is ExportScene encoded as a JSON array.
func (e *Editor) ExportSceneJSON() (string, error) {
	data, err := document.Encode(e.ExportScene())
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func (e *Editor) ShapeCount() int {
	return e.scene.Len()
}

// Shapes returns the live shapes in z-order.
func (e *Editor) Shapes() []*Shape {
	return e.scene.Shapes()
}

func (e *Editor) Selected() []*Shape {
	return e.scene.Selected()
}

func (e *Editor) State() State { return e.state }
func (e *Editor) Tool() Tool   { return e.tool }
func (e *Editor) Style() Style { return e.style }

// Viewport returns the drawing area size.
func (e *Editor) Viewport() (width, height float64) { return e.width, e.height }

func (e *Editor) UndoLen() int { return e.history.UndoLen() }
func (e *Editor) RedoLen() int { return e.history.RedoLen() }

// PersistedLayer returns the committed scene layer.
func (e *Editor) PersistedLayer() Layer { return e.persisted }

// TransientLayer returns the preview layer.
func (e *Editor) TransientLayer() Layer { return e.transient }

// Bounds returns the union of all rendered shape bounds grown by pad, or
// the viewport when the scene is empty.
func (e *Editor) Bounds(pad float64) Box {
	b, ok := SceneBounds(e.scene.Shapes())
	if !ok {
		return Box{0, 0, e.width, e.height}
	}
	return b.Pad(pad)
}

// RenderForExport deselects everything and compiles the scene on a white
// background without grid or overlay, together with the area to export.
func (e *Editor) RenderForExport(pad float64) ([]DrawCommand, Box) {
	e.scene.DeselectAll()
	e.redraw()

	b := e.Bounds(pad)
	commands := CompileScene(e.scene.Shapes(), RenderOptions{
		Width:      b.Width(),
		Height:     b.Height(),
		Background: ExportBackground,
		Default:    e.style,
	})
	return commands, b
}

// StateJSON describes the interaction state and history depth for hosts.
func (e *Editor) StateJSON() (string, error) {
	data, err := json.Marshal(map[string]interface{}{
		"mode":       e.state.Mode(),
		"tool":       e.tool,
		"shapeCount": e.scene.Len(),
		"selected":   len(e.scene.Selected()),
		"undo":       e.history.UndoLen(),
		"redo":       e.history.RedoLen(),
	})
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// redraw recompiles the persisted layer.
func (e *Editor) redraw() {
	e.persisted.set(CompileScene(e.scene.Shapes(), RenderOptions{
		Width:      e.width,
		Height:     e.height,
		Background: BackgroundColor,
		ShowGrid:   e.showGrid,
		Overlay:    true,
		Default:    e.style,
	}))
}

// redrawPreview recompiles the transient layer from the current state.
func (e *Editor) redrawPreview() {
	e.transient.set(CompilePreview(e.previewGeometry()))
}
