package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/haddock21/shape-editor/internal/document"
)

var noMods = Modifiers{}

func drawShape(e *Editor, tool Tool, from, to Point, mods Modifiers) {
	e.SetTool(tool)
	e.PointerDown(from, mods)
	e.PointerMove(to, mods)
	e.PointerUp(to, mods)
}

func TestEditor_DrawRectangle(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{10, 10}, Point{110, 60}, noMods)

	if e.ShapeCount() != 1 {
		t.Fatalf("ShapeCount = %d", e.ShapeCount())
	}
	s := e.Shapes()[0]
	assertBox(t, ShapeBounds(s), Box{10, 10, 110, 60})
	if !s.Selected {
		t.Error("new shape is not selected")
	}
	if e.UndoLen() != 1 {
		t.Errorf("UndoLen = %d", e.UndoLen())
	}
	if _, ok := e.State().(Idle); !ok {
		t.Errorf("state = %s", e.State().Mode())
	}
	if len(e.TransientLayer().Commands) != 0 {
		t.Error("preview left on the transient layer")
	}
}

func TestEditor_ClickWithoutDragDiscards(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolEllipse, Point{40, 40}, Point{40, 40}, noMods)
	if e.ShapeCount() != 0 || e.UndoLen() != 0 {
		t.Fatalf("zero-drag created a shape: count %d undo %d", e.ShapeCount(), e.UndoLen())
	}
}

func TestEditor_ShiftMakesCircleAndSquare(t *testing.T) {
	e := NewEditor(Options{})
	shift := Modifiers{Shift: true}
	drawShape(e, ToolEllipse, Point{50, 50}, Point{80, 50}, shift)
	drawShape(e, ToolRectangle, Point{0, 0}, Point{30, 50}, shift)

	if el := e.Shapes()[0].Geometry.(Ellipse); !el.Circle {
		t.Error("ellipse drawn with shift is not a circle")
	}
	if r := e.Shapes()[1].Geometry.(Rectangle); !r.Square {
		t.Error("rectangle drawn with shift is not a square")
	}
	assertBox(t, ShapeBounds(e.Shapes()[1]), Box{0, 0, 30, 30})
}

func TestEditor_PreviewDuringDraw(t *testing.T) {
	e := NewEditor(Options{})
	e.SetTool(ToolLine)
	e.PointerDown(Point{0, 0}, noMods)
	rev := e.PersistedLayer().Revision
	e.PointerMove(Point{50, 50}, noMods)

	layer := e.TransientLayer()
	if len(layer.Commands) != 1 || layer.Commands[0].Stroke != PreviewStyle.Stroke {
		t.Fatalf("transient layer = %+v", layer.Commands)
	}
	if e.PersistedLayer().Revision != rev {
		t.Error("preview move redrew the persisted layer")
	}
	if e.ShapeCount() != 0 {
		t.Error("preview shape entered the scene")
	}
}

func TestEditor_Polyline(t *testing.T) {
	e := NewEditor(Options{})
	e.SetTool(ToolPolyline)
	for _, p := range []Point{{0, 0}, {50, 0}, {50, 50}} {
		e.PointerDown(p, noMods)
		e.PointerUp(p, noMods)
	}
	// the double click itself arrives as another pointer-down first
	e.PointerDown(Point{50, 50}, noMods)
	e.DoubleClick(Point{50, 50})

	if e.ShapeCount() != 1 {
		t.Fatalf("ShapeCount = %d", e.ShapeCount())
	}
	pl, ok := e.Shapes()[0].Geometry.(Polyline)
	if !ok {
		t.Fatalf("geometry is %T", e.Shapes()[0].Geometry)
	}
	if len(pl.Points) != 3 {
		t.Errorf("points = %v", pl.Points)
	}
	if !e.Shapes()[0].Selected || e.UndoLen() != 1 {
		t.Error("polyline not committed as selected add")
	}
	if _, ok := e.State().(Idle); !ok {
		t.Errorf("state = %s", e.State().Mode())
	}
}

func TestEditor_CurveNeedsTwoPoints(t *testing.T) {
	e := NewEditor(Options{})
	e.SetTool(ToolCurve)
	e.PointerDown(Point{10, 10}, noMods)
	e.DoubleClick(Point{10, 10})
	if e.ShapeCount() != 0 {
		t.Fatal("single-point curve committed")
	}
	if _, ok := e.State().(AccumulatingCurve); !ok {
		t.Fatalf("state = %s", e.State().Mode())
	}

	e.PointerDown(Point{40, 30}, noMods)
	e.DoubleClick(Point{40, 30})
	if e.ShapeCount() != 1 {
		t.Fatal("curve not committed")
	}
	if _, ok := e.Shapes()[0].Geometry.(Curve); !ok {
		t.Errorf("geometry is %T", e.Shapes()[0].Geometry)
	}
}

func TestEditor_SetToolDiscardsAccumulator(t *testing.T) {
	e := NewEditor(Options{})
	e.SetTool(ToolPolyline)
	e.PointerDown(Point{0, 0}, noMods)
	e.PointerDown(Point{10, 10}, noMods)
	e.SetTool(ToolSelect)

	if _, ok := e.State().(Idle); !ok {
		t.Fatalf("state = %s", e.State().Mode())
	}
	if len(e.TransientLayer().Commands) != 0 {
		t.Error("transient layer not cleared")
	}
	if e.ShapeCount() != 0 {
		t.Error("accumulator committed on tool change")
	}
}

func TestEditor_DragCircle(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolEllipse, Point{50, 50}, Point{80, 50}, Modifiers{Shift: true})
	assertBox(t, ShapeBounds(e.Shapes()[0]), Box{20, 20, 80, 80})

	e.SetTool(ToolSelect)
	e.PointerDown(Point{50, 50}, noMods)
	if _, ok := e.State().(Dragging); !ok {
		t.Fatalf("state = %s", e.State().Mode())
	}
	e.PointerMove(Point{60, 70}, noMods)
	e.PointerMove(Point{70, 80}, noMods)
	e.PointerUp(Point{70, 80}, noMods)

	assertBox(t, ShapeBounds(e.Shapes()[0]), Box{40, 50, 100, 110})
	if e.UndoLen() != 1 {
		t.Errorf("drag recorded history: UndoLen = %d", e.UndoLen())
	}
}

func TestEditor_DragSnapsWithShift(t *testing.T) {
	e := NewEditor(Options{SnapToGrid: true})
	drawShape(e, ToolRectangle, Point{10, 10}, Point{60, 60}, noMods)

	e.SetTool(ToolSelect)
	e.PointerDown(Point{30, 30}, noMods)
	e.PointerMove(Point{160, 45}, Modifiers{Shift: true})
	e.PointerUp(Point{160, 45}, Modifiers{Shift: true})

	assertBox(t, ShapeBounds(e.Shapes()[0]), Box{100, 0, 150, 50})
}

func TestEditor_ClickEmptyClearsSelection(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{10, 10}, Point{60, 60}, noMods)
	e.SetTool(ToolSelect)
	e.PointerDown(Point{300, 300}, noMods)
	e.PointerUp(Point{300, 300}, noMods)

	if len(e.Selected()) != 0 {
		t.Error("selection not cleared")
	}
	if _, ok := e.State().(Idle); !ok {
		t.Errorf("state = %s", e.State().Mode())
	}
}

func TestEditor_SelectTopmost(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{100, 100}, noMods)
	drawShape(e, ToolRectangle, Point{50, 50}, Point{150, 150}, noMods)
	bottom, top := e.Shapes()[0], e.Shapes()[1]

	e.SetTool(ToolSelect)
	e.PointerDown(Point{75, 75}, noMods)
	e.PointerUp(Point{75, 75}, noMods)
	if !top.Selected || bottom.Selected {
		t.Errorf("selected bottom=%v top=%v", bottom.Selected, top.Selected)
	}
}

func TestEditor_RotationGripBeatsShapeAbove(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 100}, Point{100, 200}, noMods)
	drawShape(e, ToolRectangle, Point{0, 0}, Point{100, 90}, noMods)
	below, above := e.Shapes()[0], e.Shapes()[1]

	// below's grip (50, 80) lies inside above's body
	e.SetTool(ToolSelect)
	e.PointerDown(Point{50, 80}, noMods)
	st, ok := e.State().(Rotating)
	if !ok {
		t.Fatalf("state = %s", e.State().Mode())
	}
	if st.Shape != below || !below.Selected || above.Selected {
		t.Errorf("rotating the wrong shape: below=%v above=%v", below.Selected, above.Selected)
	}
}

func TestEditor_StateJSON(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolLine, Point{0, 0}, Point{10, 10}, noMods)

	data, err := e.StateJSON()
	if err != nil {
		t.Fatalf("StateJSON: %v", err)
	}
	for _, want := range []string{`"mode":"idle"`, `"shapeCount":1`, `"undo":1`} {
		if !strings.Contains(data, want) {
			t.Errorf("state %s missing %s", data, want)
		}
	}
}

func TestEditor_ResizeFromCorner(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{10, 10}, Point{110, 60}, noMods)

	e.SetTool(ToolSelect)
	e.PointerDown(Point{110, 60}, noMods)
	st, ok := e.State().(Resizing)
	if !ok {
		t.Fatalf("state = %s", e.State().Mode())
	}
	if st.Handle != 2 {
		t.Errorf("handle = %d", st.Handle)
	}
	e.PointerMove(Point{160, 90}, noMods)
	e.PointerMove(Point{210, 110}, noMods)
	e.PointerUp(Point{210, 110}, noMods)

	assertBox(t, ShapeBounds(e.Shapes()[0]), Box{10, 10, 210, 110})
}

func TestEditor_RotateRoundTrip(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 40}, Point{100, 100}, noMods)
	s := e.Shapes()[0]
	before := ShapeBounds(s)

	// grip at (50, 20), pivot at (50, 70)
	rotate := func(from, to Point) {
		e.SetTool(ToolSelect)
		e.PointerDown(from, noMods)
		if _, ok := e.State().(Rotating); !ok {
			t.Fatalf("state = %s", e.State().Mode())
		}
		e.PointerMove(to, noMods)
		e.PointerUp(to, noMods)
	}

	at := func(angle float64) Point {
		return Point{50 + 50*math.Cos(angle), 70 + 50*math.Sin(angle)}
	}
	theta := math.Pi / 4

	rotate(Point{50, 20}, at(-math.Pi/2+theta))
	assertNear(t, "rotation", s.Rotation, theta)

	// the grip stays put, so rotating back starts from it again
	rotate(Point{50, 20}, at(-math.Pi/2-theta))
	assertNear(t, "rotation back", s.Rotation, 0)
	assertBox(t, ShapeBounds(s), before)
	if e.UndoLen() != 1 {
		t.Errorf("rotation recorded history: UndoLen = %d", e.UndoLen())
	}
}

func TestEditor_DeleteUndoRestoresOrder(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{40, 40}, noMods)
	drawShape(e, ToolRectangle, Point{100, 100}, Point{140, 140}, noMods)
	a, b := e.Shapes()[0], e.Shapes()[1]

	e.SetTool(ToolSelect)
	e.PointerDown(Point{20, 20}, noMods)
	e.PointerUp(Point{20, 20}, noMods)
	if !e.KeyDown("Delete", noMods) {
		t.Fatal("Delete did nothing")
	}
	if e.ShapeCount() != 1 || e.UndoLen() != 3 {
		t.Fatalf("after delete: count %d undo %d", e.ShapeCount(), e.UndoLen())
	}

	e.KeyDown("z", Modifiers{Ctrl: true})
	got := e.Shapes()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("undo did not restore [A, B]: %v", got)
	}

	e.KeyDown("Z", Modifiers{Ctrl: true, Shift: true})
	if e.ShapeCount() != 1 || e.Shapes()[0] != b {
		t.Fatal("redo did not delete A again")
	}
}

func TestEditor_CopyPaste(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{10, 10}, Point{50, 50}, noMods)
	src := e.Shapes()[0]

	e.KeyDown("c", Modifiers{Ctrl: true})
	if !e.KeyDown("v", Modifiers{Ctrl: true}) {
		t.Fatal("paste did nothing")
	}

	if e.ShapeCount() != 2 {
		t.Fatalf("ShapeCount = %d", e.ShapeCount())
	}
	pasted := e.Shapes()[1]
	assertBox(t, ShapeBounds(pasted), Box{20, 20, 60, 60})
	if src.Selected || !pasted.Selected {
		t.Error("paste should select only the clone")
	}
	if e.UndoLen() != 2 {
		t.Errorf("UndoLen = %d", e.UndoLen())
	}
	e.Undo()
	if e.ShapeCount() != 1 || e.Shapes()[0] != src {
		t.Error("undo of paste removed the wrong shape")
	}
}

func TestEditor_GestureGuard(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{50, 50}, noMods)
	e.SetTool(ToolSelect)
	e.PointerDown(Point{25, 25}, noMods)
	e.PointerDown(Point{300, 300}, noMods)
	if _, ok := e.State().(Dragging); !ok {
		t.Fatalf("second pointer-down interrupted the drag: %s", e.State().Mode())
	}
}

func TestEditor_SetStyleRestylesSelection(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{50, 50}, noMods)
	drawShape(e, ToolRectangle, Point{60, 60}, Point{90, 90}, noMods)

	style := Style{Stroke: "#ff0000", Fill: "#00ff00", StrokeWidth: 4}
	if n := e.SetStyle(style); n != 1 {
		t.Fatalf("SetStyle changed %d shapes", n)
	}
	if e.Shapes()[1].Style != style || e.Shapes()[0].Style == style {
		t.Error("wrong shape restyled")
	}
}

func TestEditor_ExportLoadRoundTrip(t *testing.T) {
	e := NewEditor(Options{})
	if err := e.LoadScene(document.NewSampleScene()); err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	e.Shapes()[0].Selected = true

	first := e.ExportScene()
	for _, r := range first {
		if r.Selected {
			t.Fatal("exported record is selected")
		}
	}

	other := NewEditor(Options{})
	if err := other.LoadScene(first); err != nil {
		t.Fatalf("reload: %v", err)
	}
	second := other.ExportScene()
	if len(first) != len(second) {
		t.Fatalf("length %d vs %d", len(first), len(second))
	}
	for i := range first {
		assertBox(t, ShapeBounds(e.Shapes()[i]), ShapeBounds(other.Shapes()[i]))
		if first[i].Tool != second[i].Tool || first[i].ID != second[i].ID || first[i].Rotation != second[i].Rotation {
			t.Errorf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEditor_LoadInvalidKeepsScene(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{50, 50}, noMods)

	bad := document.NewSampleScene()
	bad[3].Tool = "hexagon"
	err := e.LoadScene(bad)
	if !errors.Is(err, document.ErrInvalidScene) {
		t.Fatalf("expected ErrInvalidScene, got %v", err)
	}
	if e.ShapeCount() != 1 || e.UndoLen() != 1 {
		t.Error("failed load changed the editor")
	}
}

func TestEditor_LoadAndClearResetHistory(t *testing.T) {
	e := NewEditor(Options{})
	drawShape(e, ToolRectangle, Point{0, 0}, Point{50, 50}, noMods)
	if err := e.LoadSceneJSON([]byte(`[{"tool":"line","x0":0,"y0":0,"x1":5,"y1":5,"selected":true}]`)); err != nil {
		t.Fatal(err)
	}
	if e.UndoLen() != 0 || e.ShapeCount() != 1 || len(e.Selected()) != 0 {
		t.Errorf("after load: undo %d count %d selected %d", e.UndoLen(), e.ShapeCount(), len(e.Selected()))
	}

	e.ClearScene()
	if e.ShapeCount() != 0 || e.UndoLen() != 0 {
		t.Error("ClearScene left shapes or history")
	}
	if e.Undo() {
		t.Error("undo after clear changed the scene")
	}
}

func TestCommandForKey(t *testing.T) {
	tests := []struct {
		key  string
		mods Modifiers
		want Command
		ok   bool
	}{
		{"z", Modifiers{Ctrl: true}, CmdUndo, true},
		{"Z", Modifiers{Ctrl: true, Shift: true}, CmdRedo, true},
		{"Delete", noMods, CmdDelete, true},
		{"c", Modifiers{Ctrl: true}, CmdCopy, true},
		{"v", Modifiers{Ctrl: true}, CmdPaste, true},
		{"z", noMods, "", false},
		{"Backspace", noMods, "", false},
	}
	for _, tt := range tests {
		got, ok := CommandForKey(tt.key, tt.mods)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CommandForKey(%q, %+v) = %q, %v", tt.key, tt.mods, got, ok)
		}
	}
}

func TestParseTool(t *testing.T) {
	if tool, err := ParseTool("circle"); err != nil || tool != ToolEllipse {
		t.Errorf("ParseTool(circle) = %q, %v", tool, err)
	}
	if _, err := ParseTool("lasso"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}
