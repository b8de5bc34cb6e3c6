package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/haddock21/shape-editor/internal/document"
	"github.com/haddock21/shape-editor/internal/engine"
	"github.com/haddock21/shape-editor/internal/typeid"
)

const defaultMaxSceneBytes = 4 << 20 // 4MB

// Settings tune the scene endpoints.
type Settings struct {
	Editor        engine.Options
	Padding       float64
	JPEGQuality   int
	MaxSceneBytes int64
}

// Handler serves stateless scene validation, rendering and file export.
type Handler struct {
	settings Settings
}

func NewHandler(settings Settings) *Handler {
	if settings.MaxSceneBytes <= 0 {
		settings.MaxSceneBytes = defaultMaxSceneBytes
	}
	if settings.Padding < 0 {
		settings.Padding = engine.ExportPadding
	}
	return &Handler{settings: settings}
}

// readScene decodes the request body into a loaded editor.
func (h *Handler) readScene(w http.ResponseWriter, r *http.Request) (*engine.Editor, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.settings.MaxSceneBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", document.ErrInvalidScene, err)
	}

	ed := engine.NewEditor(h.settings.Editor)
	if err := ed.LoadSceneJSON(data); err != nil {
		return nil, err
	}
	return ed, nil
}

// Validate reports whether the body is a loadable scene.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	ed, err := h.readScene(w, r)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  true,
		"shapes": ed.ShapeCount(),
		"bounds": ed.Bounds(0),
	})
}

// Render returns the persisted layer draw commands for the scene.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	ed, err := h.readScene(w, r)
	if err != nil {
		handleError(w, err)
		return
	}
	if v := r.URL.Query().Get("grid"); v != "" {
		show, _ := strconv.ParseBool(v)
		ed.SetGrid(show, false)
	}
	writeJSON(w, http.StatusOK, ed.PersistedLayer())
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", "application/pdf", WritePDF)
}

func (h *Handler) ExportJPEG(w http.ResponseWriter, r *http.Request) {
	quality := h.settings.JPEGQuality
	if q, err := strconv.Atoi(r.URL.Query().Get("quality")); err == nil && q > 0 && q <= 100 {
		quality = q
	}
	h.export(w, r, "jpeg", "image/jpeg", func(w io.Writer, cmds []engine.DrawCommand, b engine.Box) error {
		return WriteJPEG(w, cmds, b, quality)
	})
}

type writeFunc func(io.Writer, []engine.DrawCommand, engine.Box) error

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format, contentType string, write writeFunc) {
	ed, err := h.readScene(w, r)
	if err != nil {
		handleError(w, err)
		return
	}

	exportID := typeid.NewExportID()
	name := sanitizeName(r.URL.Query().Get("name"))
	slog.Info("export started", "id", exportID, "format", format, "shapes", ed.ShapeCount())

	commands, bounds := ed.RenderForExport(h.settings.Padding)
	var buf bytes.Buffer
	if err := write(&buf, commands, bounds); err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)

	slog.Info("export complete", "id", exportID, "format", format, "size", buf.Len())
}

func sanitizeName(name string) string {
	if name == "" {
		return "drawing"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func handleError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "scene too large"})
	case errors.Is(err, document.ErrInvalidScene):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrEmptyBounds):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "nothing to export"})
	default:
		slog.Error("export error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
