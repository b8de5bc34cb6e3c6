package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/haddock21/shape-editor/internal/engine"
)

var ErrEmptyBounds = errors.New("export bounds are empty")

// pdfPath forwards segments to the current gofpdf path.
type pdfPath struct {
	pdf *gofpdf.Fpdf
}

func (p pdfPath) MoveTo(x, y float64)         { p.pdf.MoveTo(x, y) }
func (p pdfPath) LineTo(x, y float64)         { p.pdf.LineTo(x, y) }
func (p pdfPath) QuadTo(cx, cy, x, y float64) { p.pdf.CurveTo(cx, cy, x, y) }
func (p pdfPath) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
}
func (p pdfPath) Close() { p.pdf.ClosePath() }

// WritePDF renders the commands onto a single A4 page. The area inside
// bounds is scaled to fit the page and centered horizontally; the page is
// landscape when the area is wider than tall.
func WritePDF(w io.Writer, commands []engine.DrawCommand, bounds engine.Box) error {
	sw, sh := bounds.Width(), bounds.Height()
	if sw <= 0 || sh <= 0 {
		return ErrEmptyBounds
	}

	orientation := "P"
	if sw > sh {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	pageW, pageH := pdf.GetPageSize()
	scale := min(pageW/sw, pageH/sh)
	offX := (pageW - sw*scale) / 2
	toPage := pageMatrix(bounds, scale, offX, 0)

	for _, cmd := range commands {
		switch cmd.Op {
		case "clear":
			c, ok := paintable(cmd.Fill)
			if !ok {
				continue
			}
			pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
			pdf.Rect(offX, 0, sw*scale, sh*scale, "F")

		case "path":
			style := ""
			if c, ok := paintable(cmd.Fill); ok {
				pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
				style += "F"
			}
			if c, ok := paintable(cmd.Stroke); ok && cmd.StrokeWidth > 0 {
				pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
				pdf.SetLineWidth(cmd.StrokeWidth * scale)
				style += "D"
			}
			if style == "" || len(cmd.Path) == 0 {
				continue
			}
			walkPath(cmd.Path, toPage.Multiply(cmd.Matrix()), pdfPath{pdf})
			pdf.DrawPath(style)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
