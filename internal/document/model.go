package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/haddock21/shape-editor/internal/typeid"
)

// ErrInvalidScene is returned for any scene payload that cannot be loaded.
// Loads are all-or-nothing: a single bad record rejects the whole batch.
var ErrInvalidScene = errors.New("invalid scene data")

type Tool string

const (
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolTriangle  Tool = "triangle"
	ToolPolygon   Tool = "polygon"
	ToolPolyline  Tool = "polyline"
	ToolCurve     Tool = "curve"
)

// Older exports used these names.
var toolAliases = map[Tool]Tool{
	"square":    ToolRectangle,
	"circle":    ToolEllipse,
	"poly-line": ToolPolyline,
}

// Canonical resolves legacy tool names. The bool is false for unknown tools.
func (t Tool) Canonical() (Tool, bool) {
	if alias, ok := toolAliases[t]; ok {
		return alias, true
	}
	switch t {
	case ToolLine, ToolRectangle, ToolEllipse, ToolTriangle, ToolPolygon, ToolPolyline, ToolCurve:
		return t, true
	}
	return t, false
}

// UsesPoints reports whether the tool stores a point sequence instead of two anchors.
func (t Tool) UsesPoints() bool {
	return t == ToolPolyline || t == ToolCurve
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeRecord is the flat serialization contract for one shape.
// Two-anchor tools set X0..Y1, point-sequence tools set Points.
type ShapeRecord struct {
	ID          string   `json:"id,omitempty"`
	Tool        Tool     `json:"tool"`
	X0          *float64 `json:"x0,omitempty"`
	Y0          *float64 `json:"y0,omitempty"`
	X1          *float64 `json:"x1,omitempty"`
	Y1          *float64 `json:"y1,omitempty"`
	Points      []Point  `json:"points,omitempty"`
	LineColor   string   `json:"lineColor"`
	FillColor   string   `json:"fillColor"`
	StrokeWidth float64  `json:"strokeWidth"`
	Rotation    float64  `json:"rotation"`
	IsSquare    bool     `json:"isSquare,omitempty"`
	IsCircle    bool     `json:"isCircle,omitempty"`
	Selected    bool     `json:"selected"`
}

// Anchors returns the two anchor points. Call only on validated records.
func (r ShapeRecord) Anchors() (Point, Point) {
	return Point{X: *r.X0, Y: *r.Y0}, Point{X: *r.X1, Y: *r.Y1}
}

// Float returns a pointer for the optional anchor fields.
func Float(v float64) *float64 {
	return &v
}

// Validate checks every record and returns the first problem wrapped in
// ErrInvalidScene. Tool aliases are rewritten to canonical names in place.
func Validate(records []ShapeRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return fmt.Errorf("%w: shape %d: %v", ErrInvalidScene, i, err)
		}
		if id := records[i].ID; id != "" {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: shape %d: duplicate id %q", ErrInvalidScene, i, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func validateRecord(r *ShapeRecord) error {
	tool, ok := r.Tool.Canonical()
	if !ok {
		return fmt.Errorf("unknown tool %q", r.Tool)
	}
	r.Tool = tool

	if r.ID != "" {
		if err := typeid.Validate(r.ID, typeid.PrefixShape); err != nil {
			return err
		}
	}

	if tool.UsesPoints() {
		if len(r.Points) < 2 {
			return fmt.Errorf("%s needs at least 2 points, got %d", tool, len(r.Points))
		}
		for j, p := range r.Points {
			if !finite(p.X) || !finite(p.Y) {
				return fmt.Errorf("point %d is not finite", j)
			}
		}
	} else {
		anchors := [...]struct {
			name string
			v    *float64
		}{{"x0", r.X0}, {"y0", r.Y0}, {"x1", r.X1}, {"y1", r.Y1}}
		for _, a := range anchors {
			if a.v == nil {
				return fmt.Errorf("missing %s", a.name)
			}
			if !finite(*a.v) {
				return fmt.Errorf("%s is not finite", a.name)
			}
		}
	}

	if !finite(r.Rotation) {
		return errors.New("rotation is not finite")
	}
	if !finite(r.StrokeWidth) || r.StrokeWidth < 0 {
		return fmt.Errorf("bad stroke width %v", r.StrokeWidth)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Decode parses and validates a JSON array of shape records.
func Decode(data []byte) ([]ShapeRecord, error) {
	var records []ShapeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidScene)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Encode serializes records as a JSON array, never null.
func Encode(records []ShapeRecord) ([]byte, error) {
	if records == nil {
		records = []ShapeRecord{}
	}
	return json.Marshal(records)
}
