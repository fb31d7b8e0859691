package service

import "github.com/nurpe/ops-admin/internal/model"

const (
	ColorWarning = "warning"
	ColorSuccess = "success"
	ColorError   = "error"
	ColorDefault = "default"
)

// StatusLabel maps a ticket status to its display label and color.
func StatusLabel(status model.TicketStatus) (string, string) {
	switch status {
	case model.TicketStatusPending:
		return "Pendiente", ColorWarning
	case model.TicketStatusPaid:
		return "Pagado", ColorSuccess
	case model.TicketStatusCanceled:
		return "Cancelado", ColorError
	default:
		return string(status), ColorDefault
	}
}

func PaymentLabel(method model.PaymentMethod) string {
	switch method {
	case model.PaymentCash:
		return "Efectivo"
	case model.PaymentCard:
		return "Tarjeta"
	case model.PaymentTransfer:
		return "Transferencia"
	case model.PaymentBizum:
		return "Bizum"
	case model.PaymentOther:
		return "Otro"
	default:
		return string(method)
	}
}

// Actions derives the row actions a view may offer from status, deletion and role.
func Actions(t model.Ticket, principal model.Principal) model.TicketActions {
	deleted := bool(t.IsDeleted)
	pending := t.Status == model.TicketStatusPending && !deleted
	return model.TicketActions{
		AddItem:    pending,
		RemoveItem: pending,
		MarkPaid:   pending,
		Cancel:     pending,
		Print:      t.Closed(),
		SoftDelete: !deleted,
		HardDelete: deleted && principal.IsElevated(),
	}
}

func View(t model.Ticket, principal model.Principal) model.TicketView {
	label, color := StatusLabel(t.Status)
	return model.TicketView{
		Ticket:       t,
		StatusLabel:  label,
		StatusColor:  color,
		PaymentLabel: PaymentLabel(t.PaymentMethod),
		Actions:      Actions(t, principal),
	}
}
