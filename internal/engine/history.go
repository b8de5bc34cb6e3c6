package engine

// EntryKind distinguishes history entries.
type EntryKind string

const (
	EntryAdd    EntryKind = "add"
	EntryDelete EntryKind = "delete"
)

// HistoryEntry records one structural change to the scene. For deletes,
// Indices holds each shape's position before removal.
type HistoryEntry struct {
	Kind    EntryKind
	Shapes  []*Shape
	Indices []int
}

// History is a linear undo/redo log of adds and deletes. Transforms
// (move, resize, rotate) are not recorded.
type History struct {
	undo []HistoryEntry
	redo []HistoryEntry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) push(e HistoryEntry) {
	h.undo = append(h.undo, e)
	h.redo = nil
}

// RecordAdd logs that shapes were appended to the scene.
func (h *History) RecordAdd(shapes ...*Shape) {
	if len(shapes) == 0 {
		return
	}
	h.push(HistoryEntry{Kind: EntryAdd, Shapes: shapes})
}

// RecordDelete logs that shapes were removed from the given indices.
func (h *History) RecordDelete(shapes []*Shape, indices []int) {
	if len(shapes) == 0 {
		return
	}
	h.push(HistoryEntry{Kind: EntryDelete, Shapes: shapes, Indices: indices})
}

// Undo reverts the latest entry. It returns false when there is nothing to undo.
func (h *History) Undo(scene *Scene) bool {
	if len(h.undo) == 0 {
		return false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	switch e.Kind {
	case EntryAdd:
		scene.RemoveShapes(e.Shapes)
	case EntryDelete:
		// Indices are ascending, so each insert lands where it was.
		for i, shape := range e.Shapes {
			scene.Insert(e.Indices[i], shape)
		}
	}
	h.redo = append(h.redo, e)
	return true
}

// Redo reapplies the latest undone entry. It returns false when there is nothing to redo.
func (h *History) Redo(scene *Scene) bool {
	if len(h.redo) == 0 {
		return false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	switch e.Kind {
	case EntryAdd:
		for _, shape := range e.Shapes {
			scene.Add(shape)
		}
	case EntryDelete:
		scene.RemoveShapes(e.Shapes)
	}
	h.undo = append(h.undo, e)
	return true
}

// Reset drops both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

func (h *History) UndoLen() int { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }
