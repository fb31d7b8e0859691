package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/printout"
)

const (
	pageWidth = 80.0
	margin    = 4.0
	fontName  = "Helvetica"

	// draftHeight is tall enough for any receipt; the measuring pass lays
	// the content out on it to learn the real height.
	draftHeight = 5000.0
	minHeight   = 60.0
)

type Generator struct {
	shop printout.Shop
}

func NewGenerator(shop printout.Shop) *Generator {
	return &Generator{shop: shop}
}

// TicketReceipt renders a roll-width receipt for a closed ticket. The page is
// as long as its wrapped content.
func (g *Generator) TicketReceipt(ticket model.Ticket) ([]byte, error) {
	r := printout.NewReceipt(ticket, g.shop)

	draft := layout(r, draftHeight)
	if err := draft.Error(); err != nil {
		return nil, err
	}
	pdf := layout(r, receiptHeight(draft.GetY()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func receiptHeight(contentEnd float64) float64 {
	h := contentEnd + margin
	if h < minHeight {
		return minHeight
	}
	return h
}

func layout(r printout.Receipt, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.Shop.Name != "" {
		pdf.SetFont(fontName, "B", 12)
		pdf.CellFormat(0, 6, tr(r.Shop.Name), "", 1, "C", false, 0, "")
	}
	pdf.SetFont(fontName, "", 8)
	if r.Shop.Address != "" {
		pdf.MultiCell(0, 4, tr(r.Shop.Address), "", "C", false)
	}
	if r.Shop.TaxID != "" {
		pdf.CellFormat(0, 4, tr("NIF: "+r.Shop.TaxID), "", 1, "C", false, 0, "")
	}
	separator(pdf)

	field(pdf, tr, "Ticket", r.Number)
	field(pdf, tr, "Fecha", r.Date)
	field(pdf, tr, "Estado", r.Status)
	field(pdf, tr, "Cliente", r.Customer)
	field(pdf, tr, "Forma de pago", r.PaymentMethod)
	if r.PaidAt != "" {
		field(pdf, tr, "Pagado", r.PaidAt)
	}
	if r.CreatedBy != "" {
		field(pdf, tr, "Atendido por", r.CreatedBy)
	}
	separator(pdf)

	width := pageWidth - 2*margin
	pdf.SetFont(fontName, "B", 8)
	pdf.CellFormat(width*0.7, 5, tr("Artículo"), "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.3, 5, "Importe", "", 1, "R", false, 0, "")

	pdf.SetFont(fontName, "", 8)
	for _, line := range r.Lines {
		pdf.MultiCell(0, 4, tr(line.Name), "", "L", false)
		detail := fmt.Sprintf("  %s x %s", line.Quantity, line.Price)
		if line.Discount != "" {
			detail += " dto. " + line.Discount
		}
		pdf.SetFont(fontName, "I", 7)
		pdf.CellFormat(width*0.7, 4, tr(detail), "", 0, "L", false, 0, "")
		pdf.SetFont(fontName, "", 8)
		pdf.CellFormat(width*0.3, 4, tr(line.Total), "", 1, "R", false, 0, "")
	}
	separator(pdf)

	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(width*0.5, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.5, 7, tr(r.Total), "", 1, "R", false, 0, "")

	pdf.SetFont(fontName, "", 8)
	if r.Notes != "" {
		pdf.Ln(1)
		pdf.MultiCell(0, 4, tr("Notas: "+r.Notes), "", "L", false)
	}
	pdf.Ln(3)
	pdf.CellFormat(0, 4, "Gracias por su visita", "", 1, "C", false, 0, "")
	return pdf
}

func field(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(24, 4, tr(label+":"), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 4, tr(value), "", 1, "L", false, 0, "")
}

func separator(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1
	pdf.SetDashPattern([]float64{0.8, 0.8}, 0)
	pdf.Line(margin, y, pageWidth-margin, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetY(y + 1.5)
}
