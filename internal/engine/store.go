package engine

// PasteOffset is how far pasted clones are shifted from their source.
var PasteOffset = Point{10, 10}

// Scene is the ordered shape list plus selection and clipboard.
// Order is z-order: later shapes draw on top and are hit-tested first.
type Scene struct {
	shapes    []*Shape
	clipboard []*Shape
}

func NewScene() *Scene {
	return &Scene{}
}

// Shapes returns the shapes in z-order. The slice must not be modified.
func (s *Scene) Shapes() []*Shape {
	return s.shapes
}

func (s *Scene) Len() int {
	return len(s.shapes)
}

// Add appends a shape on top of the scene.
func (s *Scene) Add(shape *Shape) {
	s.shapes = append(s.shapes, shape)
}

// Insert places a shape at index, clamped to the valid range.
func (s *Scene) Insert(index int, shape *Shape) {
	index = max(0, min(index, len(s.shapes)))
	s.shapes = append(s.shapes, nil)
	copy(s.shapes[index+1:], s.shapes[index:])
	s.shapes[index] = shape
}

// RemoveWhere removes every shape matching pred. It returns the removed
// shapes and their positions before removal, ascending.
func (s *Scene) RemoveWhere(pred func(*Shape) bool) ([]*Shape, []int) {
	var removed []*Shape
	var indices []int
	kept := s.shapes[:0]
	for i, shape := range s.shapes {
		if pred(shape) {
			removed = append(removed, shape)
			indices = append(indices, i)
			continue
		}
		kept = append(kept, shape)
	}
	clear(s.shapes[len(kept):])
	s.shapes = kept
	return removed, indices
}

// RemoveShapes removes the given instances by identity.
func (s *Scene) RemoveShapes(shapes []*Shape) int {
	set := make(map[*Shape]struct{}, len(shapes))
	for _, shape := range shapes {
		set[shape] = struct{}{}
	}
	removed, _ := s.RemoveWhere(func(shape *Shape) bool {
		_, ok := set[shape]
		return ok
	})
	return len(removed)
}

// SelectOnly selects shape and deselects everything else. nil clears the selection.
func (s *Scene) SelectOnly(shape *Shape) {
	for _, candidate := range s.shapes {
		candidate.Selected = candidate == shape
	}
}

func (s *Scene) DeselectAll() {
	s.SelectOnly(nil)
}

// Selected returns the selected shapes in z-order.
func (s *Scene) Selected() []*Shape {
	var out []*Shape
	for _, shape := range s.shapes {
		if shape.Selected {
			out = append(out, shape)
		}
	}
	return out
}

// Replace swaps in a new shape list wholesale.
func (s *Scene) Replace(shapes []*Shape) {
	s.shapes = shapes
}

// Clear empties the scene. The clipboard survives.
func (s *Scene) Clear() {
	s.shapes = nil
}

// Copy stores deep copies of the selected shapes on the clipboard and
// returns how many were copied. An empty selection leaves the clipboard alone.
func (s *Scene) Copy() int {
	selected := s.Selected()
	if len(selected) == 0 {
		return 0
	}
	s.clipboard = make([]*Shape, len(selected))
	for i, shape := range selected {
		s.clipboard[i] = shape.Clone()
	}
	return len(selected)
}

// Paste appends fresh clones of the clipboard shifted by PasteOffset. The
// pasted shapes become the selection.
func (s *Scene) Paste() []*Shape {
	if len(s.clipboard) == 0 {
		return nil
	}
	s.DeselectAll()
	pasted := make([]*Shape, len(s.clipboard))
	for i, src := range s.clipboard {
		clone := src.Clone()
		clone.Geometry = TranslateGeometry(clone.Geometry, PasteOffset)
		clone.Selected = true
		pasted[i] = clone
		s.Add(clone)
	}
	return pasted
}

// TopmostAt returns the frontmost shape hit by p.
func (s *Scene) TopmostAt(p Point, defaultStrokeWidth float64) (*Shape, bool) {
	for i := len(s.shapes) - 1; i >= 0; i-- {
		if HitTest(s.shapes[i], p, defaultStrokeWidth) {
			return s.shapes[i], true
		}
	}
	return nil, false
}
