package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/nurpe/ops-admin/internal/model"
)

type TicketBackend interface {
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	ListDeletedTickets(ctx context.Context) ([]model.Ticket, error)
	GetTicket(ctx context.Context, id int64, includeDeleted bool) (*model.Ticket, error)
	CreateTicket(ctx context.Context, in model.CreateTicketInput) (*model.Ticket, error)
	AddTicketItem(ctx context.Context, ticketID int64, in model.AddItemInput) (*model.TicketItem, error)
	RemoveTicketItem(ctx context.Context, ticketID, itemID int64) error
	MarkTicketPaid(ctx context.Context, ticketID int64, method model.PaymentMethod) error
	CancelTicket(ctx context.Context, ticketID int64) error
	DeleteTicket(ctx context.Context, ticketID int64, returnMaterials, includeDeleted bool) error
}

// StockSource answers with the last known state of a material.
type StockSource interface {
	Material(ctx context.Context, id int64) (model.Material, error)
	Forget(id int64)
}

type TicketService struct {
	backend  TicketBackend
	stock    StockSource
	validate *validator.Validate
	log      zerolog.Logger
	flights  singleflight.Group
}

func NewTicketService(backend TicketBackend, stock StockSource, log zerolog.Logger) *TicketService {
	return &TicketService{
		backend:  backend,
		stock:    stock,
		validate: newValidator(),
		log:      log.With().Str("component", "tickets").Logger(),
	}
}

func (s *TicketService) List(ctx context.Context, principal model.Principal, filter model.TicketFilter) (model.Page[model.TicketView], error) {
	tickets, err := s.backend.ListTickets(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list tickets failed")
		return model.Page[model.TicketView]{}, err
	}
	views := make([]model.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		if matchTicket(ticket, filter) {
			views = append(views, View(ticket, principal))
		}
	}
	return model.Paginate(views, filter.Pagination), nil
}

func (s *TicketService) ListDeleted(ctx context.Context, principal model.Principal, page model.Pagination) (model.Page[model.TicketView], error) {
	tickets, err := s.backend.ListDeletedTickets(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list deleted tickets failed")
		return model.Page[model.TicketView]{}, err
	}
	views := make([]model.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		ticket.IsDeleted = true
		views = append(views, View(ticket, principal))
	}
	return model.Paginate(views, page), nil
}

// Create opens a new empty ticket. Identical concurrent requests from the
// same session produce a single ticket.
func (s *TicketService) Create(ctx context.Context, sessionKey string, in model.CreateTicketInput) (*TicketLifecycle, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.CustomerID != nil && *in.CustomerID <= 0 {
		return nil, &FieldError{Fields: map[string]string{"customer": "invalid customer"}}
	}
	customer := "walk-in"
	if in.CustomerID != nil {
		customer = fmt.Sprint(*in.CustomerID)
	}
	key := fmt.Sprintf("%s:create:%s:%s", sessionKey, customer, in.Notes)

	v, err, _ := s.flights.Do(key, func() (any, error) {
		return s.backend.CreateTicket(ctx, in)
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("create ticket failed")
		return nil, err
	}
	// Collapsed callers share the result pointer.
	created := *v.(*model.Ticket)
	if created.Status == "" {
		created.Status = model.TicketStatusPending
	}
	return s.lifecycle(sessionKey, created), nil
}

// Load fetches the authoritative ticket and wraps it in a lifecycle.
func (s *TicketService) Load(ctx context.Context, sessionKey string, id int64, includeDeleted bool) (*TicketLifecycle, error) {
	ticket, err := s.backend.GetTicket(ctx, id, includeDeleted)
	if err != nil {
		s.log.Warn().Err(err).Int64("ticket_id", id).Msg("load ticket failed")
		return nil, err
	}
	return s.lifecycle(sessionKey, *ticket), nil
}

// Open wraps an already loaded ticket without contacting the backend.
func (s *TicketService) Open(sessionKey string, ticket model.Ticket) *TicketLifecycle {
	return s.lifecycle(sessionKey, ticket)
}

func (s *TicketService) lifecycle(sessionKey string, ticket model.Ticket) *TicketLifecycle {
	return &TicketLifecycle{
		svc:        s,
		sessionKey: sessionKey,
		ticket:     ticket,
		log:        s.log.With().Int64("ticket_id", ticket.ID).Logger(),
	}
}

// TicketLifecycle mediates every mutation of one ticket. The held ticket is
// replaced only by an authoritative re-fetch after a successful mutation, so
// on any failure it is left exactly as it was loaded.
type TicketLifecycle struct {
	svc        *TicketService
	sessionKey string
	ticket     model.Ticket
	log        zerolog.Logger
}

func (l *TicketLifecycle) Ticket() model.Ticket {
	return l.ticket
}

func (l *TicketLifecycle) View(principal model.Principal) model.TicketView {
	return View(l.ticket, principal)
}

func (l *TicketLifecycle) requirePending(action string) error {
	if bool(l.ticket.IsDeleted) {
		return fmt.Errorf("%w: cannot %s a deleted ticket", ErrInvalidState, action)
	}
	if l.ticket.Status != model.TicketStatusPending {
		return fmt.Errorf("%w: cannot %s a ticket in status %s", ErrInvalidState, action, l.ticket.Status)
	}
	return nil
}

type mutationResult struct {
	ticket model.Ticket
	item   *model.TicketItem
}

// mutate runs fn followed by a re-fetch, collapsing identical in-flight calls.
func (l *TicketLifecycle) mutate(ctx context.Context, op string, includeDeleted bool, fn func() (*model.TicketItem, error)) (*mutationResult, error) {
	key := fmt.Sprintf("%s:%d:%s", l.sessionKey, l.ticket.ID, op)
	v, err, shared := l.svc.flights.Do(key, func() (any, error) {
		item, err := fn()
		if err != nil {
			return nil, err
		}
		fresh, err := l.svc.backend.GetTicket(ctx, l.ticket.ID, includeDeleted)
		if err != nil {
			return nil, fmt.Errorf("refresh ticket after %s: %w", strings.SplitN(op, ":", 2)[0], err)
		}
		return &mutationResult{ticket: *fresh, item: item}, nil
	})
	if err != nil {
		l.log.Warn().Err(err).Str("op", op).Msg("ticket mutation failed")
		return nil, err
	}
	if shared {
		l.log.Debug().Str("op", op).Msg("duplicate submission collapsed")
	}
	res := v.(*mutationResult)
	l.ticket = res.ticket
	return res, nil
}

var hundred = decimal.NewFromInt(100)

func (l *TicketLifecycle) AddItem(ctx context.Context, in model.AddItemInput) (*model.TicketItem, error) {
	if err := l.requirePending("add items to"); err != nil {
		return nil, err
	}

	fields, err := fieldProblems(l.svc.validate, in)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		fields["quantity"] = "must be greater than 0"
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(hundred) {
		fields["discount_percentage"] = "must be between 0 and 100"
	}
	if len(fields) > 0 {
		return nil, &FieldError{Fields: fields}
	}
	in.Notes = strings.TrimSpace(in.Notes)

	material, err := l.svc.stock.Material(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if in.Quantity.GreaterThan(material.Quantity) {
		return nil, fmt.Errorf("%w: %s has %s available, requested %s",
			ErrInsufficientStock, material.Name, material.Quantity.String(), in.Quantity.String())
	}

	op := fmt.Sprintf("add:%d:%s:%s:%v", in.MaterialID, in.Quantity.String(), in.DiscountPercentage.String(), locationKey(in.LocationID))
	res, err := l.mutate(ctx, op, false, func() (*model.TicketItem, error) {
		return l.svc.backend.AddTicketItem(ctx, l.ticket.ID, in)
	})
	if err != nil {
		return nil, err
	}
	l.svc.stock.Forget(in.MaterialID)
	return res.item, nil
}

func (l *TicketLifecycle) RemoveItem(ctx context.Context, itemID int64) error {
	if err := l.requirePending("remove items from"); err != nil {
		return err
	}
	var materialID int64
	found := false
	for _, item := range l.ticket.Items {
		if item.ID == itemID {
			materialID, found = item.MaterialID, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: item %d is not on ticket %d", ErrNotFound, itemID, l.ticket.ID)
	}

	_, err := l.mutate(ctx, fmt.Sprintf("remove:%d", itemID), false, func() (*model.TicketItem, error) {
		return nil, l.svc.backend.RemoveTicketItem(ctx, l.ticket.ID, itemID)
	})
	if err != nil {
		return err
	}
	l.svc.stock.Forget(materialID)
	return nil
}

func (l *TicketLifecycle) MarkPaid(ctx context.Context, method model.PaymentMethod) error {
	if err := l.requirePending("pay"); err != nil {
		return err
	}
	method = model.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(method))))
	if !method.Valid() {
		return &FieldError{Fields: map[string]string{"payment_method": "must be one of CASH, CARD, TRANSFER, BIZUM, OTHER"}}
	}

	res, err := l.mutate(ctx, "pay:"+string(method), false, func() (*model.TicketItem, error) {
		return nil, l.svc.backend.MarkTicketPaid(ctx, l.ticket.ID, method)
	})
	if err != nil {
		return err
	}
	if res.ticket.PaidAt == nil && res.ticket.Status == model.TicketStatusPaid {
		now := time.Now()
		l.ticket.PaidAt = &now
	}
	return nil
}

func (l *TicketLifecycle) Cancel(ctx context.Context) error {
	if err := l.requirePending("cancel"); err != nil {
		return err
	}
	held := l.ticket.Items
	res, err := l.mutate(ctx, "cancel", false, func() (*model.TicketItem, error) {
		return nil, l.svc.backend.CancelTicket(ctx, l.ticket.ID)
	})
	if err != nil {
		return err
	}
	l.forgetStock(held)
	if res.ticket.CanceledAt == nil && res.ticket.Status == model.TicketStatusCanceled {
		now := time.Now()
		l.ticket.CanceledAt = &now
	}
	return nil
}

// SoftDelete hides the ticket from regular listings. returnMaterials decides
// whether consumed materials go back to stock. There is no undelete.
func (l *TicketLifecycle) SoftDelete(ctx context.Context, returnMaterials bool) error {
	if bool(l.ticket.IsDeleted) {
		return fmt.Errorf("%w: ticket %d is already deleted", ErrInvalidState, l.ticket.ID)
	}
	held := l.ticket.Items
	_, err := l.mutate(ctx, fmt.Sprintf("delete:%t", returnMaterials), true, func() (*model.TicketItem, error) {
		return nil, l.svc.backend.DeleteTicket(ctx, l.ticket.ID, returnMaterials, false)
	})
	if err != nil {
		return err
	}
	if returnMaterials {
		l.forgetStock(held)
	}
	l.ticket.IsDeleted = true
	return nil
}

// forgetStock drops remembered figures for materials the backend may have
// put back in stock.
func (l *TicketLifecycle) forgetStock(items []model.TicketItem) {
	for _, item := range items {
		l.svc.stock.Forget(item.MaterialID)
	}
}

// HardDelete purges an already soft-deleted ticket. Elevated roles only.
func (l *TicketLifecycle) HardDelete(ctx context.Context, principal model.Principal) error {
	if !principal.IsElevated() {
		return ErrPermissionDenied
	}
	if !bool(l.ticket.IsDeleted) {
		return fmt.Errorf("%w: ticket %d must be deleted before it can be purged", ErrInvalidState, l.ticket.ID)
	}
	if err := l.svc.backend.DeleteTicket(ctx, l.ticket.ID, false, true); err != nil {
		l.log.Warn().Err(err).Msg("purge ticket failed")
		return err
	}
	return nil
}

func locationKey(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

func matchTicket(t model.Ticket, f model.TicketFilter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.CustomerID != nil && (t.CustomerID == nil || *t.CustomerID != *f.CustomerID) {
		return false
	}
	if f.From != nil || f.To != nil {
		if t.CreatedAt == nil {
			return false
		}
		created := t.CreatedAt.In(time.Local)
		if f.From != nil && created.Before(startOfDay(*f.From)) {
			return false
		}
		if f.To != nil && !created.Before(startOfDay(*f.To).AddDate(0, 0, 1)) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{t.TicketNumber, t.CustomerName, t.Notes}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
