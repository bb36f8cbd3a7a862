package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// Column widths in millimetres. They fit inside the A4 landscape margins.
var pdfWidths = []float64{48, 30, 22, 24, 20, 24, 22, 22, 14, 21}

const (
	pdfRowHeight = 6.0
	pdfFont      = "Helvetica"
)

// WritePDF renders the passengers as an A4 landscape table. The header row is
// repeated on every page.
func WritePDF(w io.Writer, title string, passengers []*domain.Passenger, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(pdfFont, "B", 13)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s - %d passengers",
			generatedAt.UTC().Format(time.RFC3339), len(passengers)), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont(pdfFont, "B", 8)
		pdf.SetFillColor(225, 230, 240)
		for i, col := range Columns {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, col, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(pdfFont, "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFont, "", 8)
	for _, p := range passengers {
		for i, cell := range row(p) {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
