package printout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/model"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"20":        "20,00 €",
		"0":         "0,00 €",
		"1234.567":  "1.234,57 €",
		"1000000.5": "1.000.000,50 €",
		"-15.2":     "-15,20 €",
		"999.999":   "1.000,00 €",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func paidTicket() model.Ticket {
	return model.Ticket{
		ID:            7,
		TicketNumber:  "T-0007",
		Status:        model.TicketStatusPaid,
		PaymentMethod: model.PaymentCash,
		TotalAmount:   decimal.RequireFromString("20.00"),
		Items: []model.TicketItem{{
			ID:           1,
			MaterialName: "Tornillo <M6>",
			Quantity:     decimal.NewFromInt(2),
			UnitPrice:    decimal.RequireFromString("10.00"),
			TotalPrice:   decimal.RequireFromString("20.00"),
		}},
	}
}

func TestTicketHTML(t *testing.T) {
	ticket := paidTicket()

	out, err := TicketHTML(ticket, Shop{Name: "Ferretería Sol", TaxID: "B12345678"})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Efectivo")
	assert.Contains(t, html, "20,00 €")
	assert.Contains(t, html, "Pagado")
	assert.Contains(t, html, "Ferretería Sol")
	assert.Contains(t, html, "Cliente: no especificado")
	assert.Contains(t, html, "Tornillo &lt;M6&gt;")
	assert.NotContains(t, html, "Tornillo <M6>")
	assert.Contains(t, html, "<p>Notas: </p>")
}

func TestTicketHTMLDoesNotMutate(t *testing.T) {
	ticket := paidTicket()
	ticket.PaymentMethod = ""

	_, err := TicketHTML(ticket, Shop{})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentMethod(""), ticket.PaymentMethod)
	assert.Equal(t, "", ticket.CustomerName)
	assert.Len(t, ticket.Items, 1)

	r := NewReceipt(ticket, Shop{})
	assert.Equal(t, Unspecified, r.PaymentMethod)
	assert.Equal(t, "T-0007", r.Number)
}

func TestReceiptFallsBackToID(t *testing.T) {
	r := NewReceipt(model.Ticket{ID: 42, Status: model.TicketStatusCanceled}, Shop{})
	assert.Equal(t, "#42", r.Number)
	assert.Equal(t, "Cancelado", r.Status)
	assert.Empty(t, r.Lines)
}
