package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/printout"
)

func TestTicketReceipt(t *testing.T) {
	gen := NewGenerator(printout.Shop{Name: "Ferretería Sol", Address: "Calle Mayor 1", TaxID: "B12345678"})

	ticket := model.Ticket{
		ID:            3,
		Status:        model.TicketStatusPaid,
		PaymentMethod: model.PaymentCard,
		TotalAmount:   decimal.RequireFromString("18.00"),
		Notes:         "Entregar en almacén",
		Items: []model.TicketItem{{
			MaterialName:       "Cinta aislante",
			Quantity:           decimal.NewFromInt(2),
			UnitPrice:          decimal.RequireFromString("10.00"),
			DiscountPercentage: decimal.NewFromInt(10),
			TotalPrice:         decimal.RequireFromString("18.00"),
		}},
	}

	out, err := gen.TicketReceipt(ticket)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestTicketReceiptWithoutItems(t *testing.T) {
	out, err := NewGenerator(printout.Shop{}).TicketReceipt(model.Ticket{ID: 1, Status: model.TicketStatusCanceled})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestReceiptGrowsWithWrappedContent(t *testing.T) {
	shop := printout.Shop{Name: "Ferretería Sol", Address: strings.Repeat("Polígono Industrial Norte, nave ", 6)}
	short := model.Ticket{ID: 4, Status: model.TicketStatusPaid, Items: []model.TicketItem{{MaterialName: "Tornillo"}}}
	long := short
	long.Notes = strings.Repeat("Entregar en la puerta trasera del almacén. ", 30)
	long.Items = []model.TicketItem{{MaterialName: strings.Repeat("Cable manguera flexible 3x2,5 ", 8)}}

	shortEnd := layout(printout.NewReceipt(short, shop), draftHeight).GetY()
	longEnd := layout(printout.NewReceipt(long, shop), draftHeight).GetY()
	assert.Greater(t, longEnd-shortEnd, 40.0)

	height := receiptHeight(longEnd)
	final := layout(printout.NewReceipt(long, shop), height)
	require.NoError(t, final.Error())
	assert.Equal(t, 1, final.PageNo())
	assert.LessOrEqual(t, final.GetY(), height-margin+0.01)

	out, err := NewGenerator(shop).TicketReceipt(long)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
