//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/haddock21/shape-editor/internal/document"
	"github.com/haddock21/shape-editor/internal/engine"
)

var ed *engine.Editor

func main() {
	ed = engine.NewEditor(engine.Options{})

	// Create the editor API object
	shapeEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	shapeEditor.Set("setTool", js.FuncOf(setTool))
	shapeEditor.Set("setStyle", js.FuncOf(setStyle))
	shapeEditor.Set("setGrid", js.FuncOf(setGrid))
	shapeEditor.Set("resize", js.FuncOf(resize))
	shapeEditor.Set("pointerDown", js.FuncOf(pointerDown))
	shapeEditor.Set("pointerMove", js.FuncOf(pointerMove))
	shapeEditor.Set("pointerUp", js.FuncOf(pointerUp))
	shapeEditor.Set("doubleClick", js.FuncOf(doubleClick))
	shapeEditor.Set("keyDown", js.FuncOf(keyDown))
	shapeEditor.Set("execute", js.FuncOf(execute))
	shapeEditor.Set("loadScene", js.FuncOf(loadScene))
	shapeEditor.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	shapeEditor.Set("clearScene", js.FuncOf(clearScene))

	// --- Queries (frontend ← editor) ---
	shapeEditor.Set("exportScene", js.FuncOf(exportScene))
	shapeEditor.Set("renderPersisted", js.FuncOf(renderPersisted))
	shapeEditor.Set("renderTransient", js.FuncOf(renderTransient))
	shapeEditor.Set("getRevisions", js.FuncOf(getRevisions))
	shapeEditor.Set("getState", js.FuncOf(getState))
	shapeEditor.Set("getBounds", js.FuncOf(getBounds))

	// Register on global scope
	js.Global().Set("shapeEditor", shapeEditor)

	// Signal that WASM is ready
	js.Global().Set("shapeEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// pointerArgs reads (x, y, shift?, ctrl?).
func pointerArgs(args []js.Value) (engine.Point, engine.Modifiers, bool) {
	if len(args) < 2 {
		return engine.Point{}, engine.Modifiers{}, false
	}
	p := engine.Point{X: args[0].Float(), Y: args[1].Float()}
	var mods engine.Modifiers
	if len(args) > 2 {
		mods.Shift = args[2].Truthy()
	}
	if len(args) > 3 {
		mods.Ctrl = args[3].Truthy()
	}
	return p, mods, true
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tool name"})
	}
	tool, err := engine.ParseTool(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	ed.SetTool(tool)
	return okResult()
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(0)
	}
	return js.ValueOf(ed.SetStyle(engine.Style{
		Stroke:      args[0].String(),
		Fill:        args[1].String(),
		StrokeWidth: args[2].Float(),
	}))
}

func setGrid(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetGrid(args[0].Truthy(), args[1].Truthy())
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.Resize(args[0].Float(), args[1].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if p, mods, ok := pointerArgs(args); ok {
		ed.PointerDown(p, mods)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if p, mods, ok := pointerArgs(args); ok {
		ed.PointerMove(p, mods)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if p, mods, ok := pointerArgs(args); ok {
		ed.PointerUp(p, mods)
	}
	return nil
}

func doubleClick(this js.Value, args []js.Value) interface{} {
	if p, _, ok := pointerArgs(args); ok {
		ed.DoubleClick(p)
	}
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var mods engine.Modifiers
	if len(args) > 1 {
		mods.Shift = args[1].Truthy()
	}
	if len(args) > 2 {
		mods.Ctrl = args[2].Truthy()
	}
	return js.ValueOf(ed.KeyDown(args[0].String(), mods))
}

func execute(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.Execute(engine.Command(args[0].String())))
}

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing scene JSON"})
	}
	if err := ed.LoadSceneJSON([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	if err := ed.LoadScene(document.NewSampleScene()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func clearScene(this js.Value, args []js.Value) interface{} {
	ed.ClearScene()
	return nil
}

// --- Query Handlers ---

func exportScene(this js.Value, args []js.Value) interface{} {
	data, err := ed.ExportSceneJSON()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(data)
}

func renderPersisted(this js.Value, args []js.Value) interface{} {
	data, err := engine.DrawCommandsToJSON(ed.PersistedLayer().Commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(data)
}

func renderTransient(this js.Value, args []js.Value) interface{} {
	data, err := engine.DrawCommandsToJSON(ed.TransientLayer().Commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(data)
}

// getRevisions lets the frontend skip repainting unchanged layers.
func getRevisions(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(map[string]interface{}{
		"persisted": float64(ed.PersistedLayer().Revision),
		"transient": float64(ed.TransientLayer().Revision),
	})
}

func getState(this js.Value, args []js.Value) interface{} {
	data, err := ed.StateJSON()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(data)
}

func getBounds(this js.Value, args []js.Value) interface{} {
	pad := 0.0
	if len(args) > 0 {
		pad = args[0].Float()
	}
	data, err := engine.BoxToJSON(ed.Bounds(pad))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(data)
}
