// Package report renders the ATS report PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

// Page geometry in points, letter size, measured from the bottom edge.
const (
	pageHeight  = 792.0
	marginLeft  = 50.0
	itemIndent  = 60.0
	titleY      = 750.0
	firstLineY  = 720.0
	lineSpacing = 20.0
	bottomLimit = 50.0
)

// Generator renders reports with a fixed title.
type Generator struct {
	title string
}

// NewGenerator creates a generator; an empty title uses "ATS Resume Report".
func NewGenerator(title string) *Generator {
	if title == "" {
		title = "ATS Resume Report"
	}
	return &Generator{title: title}
}

// Generate renders the report and returns the PDF bytes.
func (g *Generator) Generate(req types.ReportRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the report to w. The layout is a bold title followed by
// the score, the matched keywords and, when present, one line per suggestion.
func (g *Generator) Write(w io.Writer, req types.ReportRequest) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(g.title, true)
	pdf.SetCreator("resumetwin", true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	drawLine(pdf, marginLeft, titleY, tr(g.title))

	pdf.SetFont("Helvetica", "", 12)
	y := firstLineY
	drawLine(pdf, marginLeft, y, fmt.Sprintf("ATS Score: %d / 100", req.Score))
	y -= lineSpacing
	drawLine(pdf, marginLeft, y, tr("Matched Keywords: "+strings.Join(req.Keywords, ", ")))
	y -= lineSpacing

	if len(req.Suggestions) > 0 {
		drawLine(pdf, marginLeft, y, "Suggestions:")
		y -= lineSpacing
		for _, s := range req.Suggestions {
			if y < bottomLimit {
				pdf.AddPage()
				pdf.SetFont("Helvetica", "", 12)
				y = titleY
			}
			drawLine(pdf, itemIndent, y, tr("- "+s))
			y -= lineSpacing
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.NewInternalError(errors.ErrCodeReportFailed, "failed to render report PDF", err)
	}
	return nil
}

// drawLine places text with its baseline y points above the bottom edge.
func drawLine(pdf *fpdf.Fpdf, x, y float64, text string) {
	pdf.Text(x, pageHeight-y, text)
}
