package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haddock21/shape-editor/internal/engine"
)

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrUnknownEvent = errors.New("unknown event kind")
	ErrBadPayload   = errors.New("invalid payload")
)

// Session is one private editor driven by one connection. Sessions are
// never shared; Handle must be called from a single goroutine.
type Session struct {
	ID     string
	editor *engine.Editor
	seq    int64

	sentPersisted uint64
	sentTransient uint64
}

func NewSession(id string, opts engine.Options) *Session {
	return &Session{
		ID:     id,
		editor: engine.NewEditor(opts),
	}
}

// Editor exposes the underlying editor.
func (s *Session) Editor() *engine.Editor {
	return s.editor
}

// Welcome is the first message of a session, followed by a full frame.
func (s *Session) Welcome() []*Message {
	width, height := s.editor.Viewport()
	w := s.message(TypeWelcome, WelcomePayload{SessionID: s.ID, Width: width, Height: height})
	return []*Message{w, s.frame()}
}

// Handle applies one client message and returns the replies. Failures are
// reported as a single error message; the editor is left unchanged.
func (s *Session) Handle(msg *Message) []*Message {
	replies, err := s.handle(msg)
	if err != nil {
		return []*Message{s.message(TypeError, ErrorPayload{Message: err.Error()})}
	}
	return replies
}

func (s *Session) handle(msg *Message) ([]*Message, error) {
	ed := s.editor

	switch msg.Type {
	case TypeEvent:
		var ev EventPayload
		if err := decode(msg.Payload, &ev); err != nil {
			return nil, err
		}
		if err := s.applyEvent(ev); err != nil {
			return nil, err
		}

	case TypeTool:
		var p ToolPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		tool, err := engine.ParseTool(p.Tool)
		if err != nil {
			return nil, err
		}
		ed.SetTool(tool)

	case TypeStyle:
		var p StylePayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		ed.SetStyle(engine.Style{Stroke: p.LineColor, Fill: p.FillColor, StrokeWidth: p.StrokeWidth})

	case TypeGrid:
		var p GridPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		ed.SetGrid(p.Show, p.Snap)

	case TypeResize:
		var p ResizePayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		ed.Resize(p.Width, p.Height)

	case TypeLoad:
		var p LoadPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		if err := ed.LoadSceneJSON(p.Shapes); err != nil {
			return nil, err
		}

	case TypeClear:
		ed.ClearScene()

	case TypeExport:
		scene := s.message(TypeScene, ScenePayload{Shapes: ed.ExportScene()})
		return []*Message{scene, s.frame()}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}

	return []*Message{s.frame()}, nil
}

func (s *Session) applyEvent(ev EventPayload) error {
	ed := s.editor
	pos := engine.Point{X: ev.X, Y: ev.Y}
	mods := engine.Modifiers{Shift: ev.Shift, Ctrl: ev.Ctrl}

	switch ev.Kind {
	case EventPointerDown:
		ed.PointerDown(pos, mods)
	case EventPointerMove:
		ed.PointerMove(pos, mods)
	case EventPointerUp:
		ed.PointerUp(pos, mods)
	case EventDoubleClick:
		ed.DoubleClick(pos)
	case EventKey:
		ed.KeyDown(ev.Key, mods)
	case EventCommand:
		ed.Execute(engine.Command(ev.Command))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return nil
}

// frame reports the editor state, with each layer included only if it
// was recompiled since the last frame.
func (s *Session) frame() *Message {
	ed := s.editor
	p := FramePayload{
		Mode:       ed.State().Mode(),
		Tool:       ed.Tool(),
		ShapeCount: ed.ShapeCount(),
		Undo:       ed.UndoLen(),
		Redo:       ed.RedoLen(),
	}
	if l := ed.PersistedLayer(); l.Revision != s.sentPersisted {
		s.sentPersisted = l.Revision
		p.Persisted = &l
	}
	if l := ed.TransientLayer(); l.Revision != s.sentTransient {
		s.sentTransient = l.Revision
		p.Transient = &l
	}
	return s.message(TypeFrame, p)
}

func (s *Session) message(typ string, payload interface{}) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(ErrorPayload{Message: err.Error()})
		typ = TypeError
	}
	s.seq++
	return &Message{Type: typ, SessionID: s.ID, Seq: s.seq, Payload: data}
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrBadPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}
