package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusPaid     TicketStatus = "PAID"
	TicketStatusCanceled TicketStatus = "CANCELED"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentBizum    PaymentMethod = "BIZUM"
	PaymentOther    PaymentMethod = "OTHER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentBizum, PaymentOther:
		return true
	}
	return false
}

type Ticket struct {
	ID            int64           `json:"id"`
	TicketNumber  string          `json:"ticket_number"`
	CustomerID    *int64          `json:"customer"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Status        TicketStatus    `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CanceledAt    *time.Time      `json:"canceled_at,omitempty"`
	Notes         string          `json:"notes"`
	IsDeleted     Flag            `json:"is_deleted"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	Items         []TicketItem    `json:"items"`
}

func (t Ticket) Pending() bool {
	return t.Status == TicketStatusPending && !bool(t.IsDeleted)
}

// Closed reports whether the ticket reached one of its terminal states.
func (t Ticket) Closed() bool {
	return t.Status == TicketStatusPaid || t.Status == TicketStatusCanceled
}

type TicketItem struct {
	ID                 int64           `json:"id"`
	MaterialID         int64           `json:"material"`
	MaterialName       string          `json:"material_name,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	LocationID         *int64          `json:"location"`
	LocationName       string          `json:"location_name,omitempty"`
	Notes              string          `json:"notes"`
}

type CreateTicketInput struct {
	CustomerID *int64 `json:"customer"`
	Notes      string `json:"notes"`
}

type AddItemInput struct {
	MaterialID         int64           `json:"material" validate:"required,gt=0"`
	Quantity           decimal.Decimal `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	LocationID         *int64          `json:"location"`
	Notes              string          `json:"notes,omitempty"`
}

type MarkPaidInput struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// TicketActions lists which row actions a view may offer for a ticket.
type TicketActions struct {
	AddItem    bool `json:"add_item"`
	RemoveItem bool `json:"remove_item"`
	MarkPaid   bool `json:"mark_paid"`
	Cancel     bool `json:"cancel"`
	Print      bool `json:"print"`
	SoftDelete bool `json:"soft_delete"`
	HardDelete bool `json:"hard_delete"`
}

type TicketView struct {
	Ticket
	StatusLabel  string        `json:"status_label"`
	StatusColor  string        `json:"status_color"`
	PaymentLabel string        `json:"payment_label,omitempty"`
	Actions      TicketActions `json:"actions"`
}
