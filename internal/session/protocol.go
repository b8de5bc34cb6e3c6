package session

import (
	"encoding/json"

	"github.com/haddock21/shape-editor/internal/document"
	"github.com/haddock21/shape-editor/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypeEvent  = "event"
	TypeTool   = "tool"
	TypeStyle  = "style"
	TypeGrid   = "grid"
	TypeResize = "resize"
	TypeLoad   = "load"
	TypeExport = "export"
	TypeClear  = "clear"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeScene   = "scene"
	TypeError   = "error"
)

// Input event kinds carried by TypeEvent.
const (
	EventPointerDown = "pointerdown"
	EventPointerMove = "pointermove"
	EventPointerUp   = "pointerup"
	EventDoubleClick = "dblclick"
	EventKey         = "key"
	EventCommand     = "command"
)

type EventPayload struct {
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Shift   bool    `json:"shift,omitempty"`
	Ctrl    bool    `json:"ctrl,omitempty"`
	Key     string  `json:"key,omitempty"`
	Command string  `json:"command,omitempty"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type StylePayload struct {
	LineColor   string  `json:"lineColor"`
	FillColor   string  `json:"fillColor"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type GridPayload struct {
	Show bool `json:"show"`
	Snap bool `json:"snap"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type LoadPayload struct {
	Shapes json.RawMessage `json:"shapes"`
}

type WelcomePayload struct {
	SessionID string  `json:"sessionId"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// FramePayload carries only the layers whose revision changed since the
// previous frame.
type FramePayload struct {
	Persisted  *engine.Layer `json:"persisted,omitempty"`
	Transient  *engine.Layer `json:"transient,omitempty"`
	Mode       engine.Mode   `json:"mode"`
	Tool       engine.Tool   `json:"tool"`
	ShapeCount int           `json:"shapeCount"`
	Undo       int           `json:"undo"`
	Redo       int           `json:"redo"`
}

type ScenePayload struct {
	Shapes []document.ShapeRecord `json:"shapes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
