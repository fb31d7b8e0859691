// Package printout renders self-contained printable documents.
package printout

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/service"
)

// Unspecified is printed in place of missing optional fields.
const Unspecified = "no especificado"

type Shop struct {
	Name    string
	Address string
	TaxID   string
}

// Line is one printable ticket item.
type Line struct {
	Name     string
	Quantity string
	Price    string
	Discount string
	Total    string
}

// Receipt is the printable projection of a ticket. It never aliases the
// ticket it was built from.
type Receipt struct {
	Shop          Shop
	Number        string
	Status        string
	Customer      string
	PaymentMethod string
	Date          string
	PaidAt        string
	CreatedBy     string
	Notes         string
	Lines         []Line
	Total         string
}

func NewReceipt(t model.Ticket, shop Shop) Receipt {
	status, _ := service.StatusLabel(t.Status)
	r := Receipt{
		Shop:          shop,
		Number:        placeholder(t.TicketNumber),
		Status:        status,
		Customer:      placeholder(t.CustomerName),
		PaymentMethod: placeholder(service.PaymentLabel(t.PaymentMethod)),
		Date:          formatTime(t.CreatedAt),
		PaidAt:        formatTime(t.PaidAt),
		CreatedBy:     strings.TrimSpace(t.CreatedByName),
		Notes:         strings.TrimSpace(t.Notes),
		Total:         FormatMoney(t.TotalAmount),
		Lines:         make([]Line, 0, len(t.Items)),
	}
	if r.Number == Unspecified {
		r.Number = "#" + strconv.FormatInt(t.ID, 10)
	}
	for _, item := range t.Items {
		discount := ""
		if item.DiscountPercentage.IsPositive() {
			discount = FormatNumber(item.DiscountPercentage, 2) + " %"
		}
		r.Lines = append(r.Lines, Line{
			Name:     placeholder(item.MaterialName),
			Quantity: FormatNumber(item.Quantity, 2),
			Price:    FormatMoney(item.UnitPrice),
			Discount: discount,
			Total:    FormatMoney(item.TotalPrice),
		})
	}
	return r
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Ticket {{.Number}}</title>
<style>
body { font-family: monospace; width: 72mm; margin: 0 auto; font-size: 12px; }
h1 { font-size: 16px; text-align: center; margin: 4px 0; }
.center { text-align: center; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 2px 0; text-align: left; }
td.num, th.num { text-align: right; }
.total { font-size: 14px; font-weight: bold; border-top: 1px dashed #000; }
footer { margin-top: 12px; text-align: center; }
@media print { @page { margin: 0; } }
</style>
</head>
<body>
<header>
{{with .Shop.Name}}<h1>{{.}}</h1>{{end}}
{{with .Shop.Address}}<div class="center">{{.}}</div>{{end}}
{{with .Shop.TaxID}}<div class="center">NIF: {{.}}</div>{{end}}
</header>
<section>
<div>Ticket: {{.Number}}</div>
<div>Fecha: {{.Date}}</div>
<div>Estado: {{.Status}}</div>
<div>Cliente: {{.Customer}}</div>
<div>Forma de pago: {{.PaymentMethod}}</div>
{{with .PaidAt}}<div>Pagado: {{.}}</div>{{end}}
{{with .CreatedBy}}<div>Atendido por: {{.}}</div>{{end}}
</section>
<table>
<thead><tr><th>Artículo</th><th class="num">Cant.</th><th class="num">Precio</th><th class="num">Dto.</th><th class="num">Importe</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Price}}</td><td class="num">{{.Discount}}</td><td class="num">{{.Total}}</td></tr>
{{end}}</tbody>
<tfoot><tr class="total"><td colspan="4">TOTAL</td><td class="num">{{.Total}}</td></tr></tfoot>
</table>
<p>Notas: {{.Notes}}</p>
<footer>Gracias por su visita</footer>
</body>
</html>
`))

// TicketHTML renders a printable receipt. The ticket is only read.
func TicketHTML(t model.Ticket, shop Shop) ([]byte, error) {
	var buf bytes.Buffer
	if err := ticketTemplate.Execute(&buf, NewReceipt(t, shop)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func placeholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Unspecified
	}
	return value
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("02/01/2006 15:04")
}
