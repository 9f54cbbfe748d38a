package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceRow is one priced line on a PDF invoice
type InvoiceRow struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// KV is a label and a preformatted value
type KV struct {
	Label string
	Value string
	Bold  bool
}

// Invoice is the printable content of an A4 invoice. Amounts arrive formatted.
type Invoice struct {
	Title   string
	Header  []string // store name first, then address lines
	Meta    []KV     // invoice number, dates, customer
	Rows    []InvoiceRow
	Totals  []KV
	Footer  string
	Created string
}

// RenderPDF lays the invoice out on an A4 page using the core Helvetica font.
func RenderPDF(inv Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(inv.Title, false)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, line := range inv.Header {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.CellFormat(0, 9, tr(line), "", 1, "L", false, 0, "")
			continue
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(inv.Title), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, kv := range inv.Meta {
		pdf.CellFormat(40, 6, tr(kv.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(kv.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 7, "Service", "B", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", true, 0, "")
	pdf.CellFormat(32, 7, "Unit price", "B", 0, "R", true, 0, "")
	pdf.CellFormat(33, 7, "Amount", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range inv.Rows {
		pdf.CellFormat(95, 6, tr(trim(r.Name, 55)), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", r.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, r.UnitPrice, "", 0, "R", false, 0, "")
		pdf.CellFormat(33, 6, r.Total, "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	for _, kv := range inv.Totals {
		style := ""
		if kv.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(147, 6, tr(kv.Label), "", 0, "R", false, 0, "")
		pdf.CellFormat(33, 6, kv.Value, "", 1, "R", false, 0, "")
	}

	if inv.Footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr(inv.Footer), "", "C", false)
	}
	if inv.Created != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, "Generated "+inv.Created, "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("printer: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
