package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nurpe/ops-admin/internal/model"
)

func (c *Client) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	return list[model.Ticket](ctx, c, "tickets/tickets/", nil)
}

func (c *Client) ListDeletedTickets(ctx context.Context) ([]model.Ticket, error) {
	return list[model.Ticket](ctx, c, "tickets/tickets/deleted/", nil)
}

func (c *Client) GetTicket(ctx context.Context, id int64, includeDeleted bool) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.get(ctx, idPath("tickets/tickets/%d/", id), boolQuery("include_deleted", includeDeleted), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, in model.CreateTicketInput) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.post(ctx, "tickets/tickets/", in, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) AddTicketItem(ctx context.Context, ticketID int64, in model.AddItemInput) (*model.TicketItem, error) {
	var item model.TicketItem
	if err := c.post(ctx, idPath("tickets/tickets/%d/items/", ticketID), in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveTicketItem(ctx context.Context, ticketID, itemID int64) error {
	return c.delete(ctx, idPath("tickets/tickets/%d/items/%d/", ticketID, itemID), nil)
}

func (c *Client) MarkTicketPaid(ctx context.Context, ticketID int64, method model.PaymentMethod) error {
	return c.post(ctx, idPath("tickets/tickets/%d/mark_as_paid/", ticketID), model.MarkPaidInput{PaymentMethod: method}, nil)
}

func (c *Client) CancelTicket(ctx context.Context, ticketID int64) error {
	return c.post(ctx, idPath("tickets/tickets/%d/cancel/", ticketID), nil, nil)
}

// DeleteTicket soft-deletes a live ticket. Called on an already deleted
// ticket with includeDeleted set, the backend purges it.
func (c *Client) DeleteTicket(ctx context.Context, ticketID int64, returnMaterials, includeDeleted bool) error {
	query := url.Values{"return_materials": []string{strconv.FormatBool(returnMaterials)}}
	if includeDeleted {
		query.Set("include_deleted", "true")
	}
	return c.delete(ctx, idPath("tickets/tickets/%d/", ticketID), query)
}

func (c *Client) ListMaterials(ctx context.Context, availableOnly bool) ([]model.Material, error) {
	return list[model.Material](ctx, c, "materials/materials/", boolQuery("available_only", availableOnly))
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	return list[model.User](ctx, c, "users/", nil)
}
