package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/printout"
	"github.com/nurpe/ops-admin/internal/service"
)

func (h *Handler) listTickets(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter model.TicketFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	page, err := h.deps.Tickets.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listDeletedTickets(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}
	result, err := h.deps.Tickets.ListDeleted(c.Request.Context(), principal, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) createTicket(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var in model.CreateTicketInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	lc, err := h.deps.Tickets.Create(c.Request.Context(), sessionKey(c), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lc.View(principal))
}

// loadTicket resolves :id into a lifecycle holding the authoritative ticket.
func (h *Handler) loadTicket(c *gin.Context, includeDeleted bool) (*service.TicketLifecycle, model.Principal, bool) {
	principal, ok := h.principal(c)
	if !ok {
		return nil, principal, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return nil, principal, false
	}
	lc, err := h.deps.Tickets.Load(c.Request.Context(), sessionKey(c), id, includeDeleted)
	if err != nil {
		h.handleError(c, err)
		return nil, principal, false
	}
	return lc, principal, true
}

func (h *Handler) getTicket(c *gin.Context) {
	lc, principal, ok := h.loadTicket(c, queryBool(c, "include_deleted"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, lc.View(principal))
}

func (h *Handler) addTicketItem(c *gin.Context) {
	lc, principal, ok := h.loadTicket(c, false)
	if !ok {
		return
	}
	var in model.AddItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := lc.AddItem(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "ticket": lc.View(principal)})
}

func (h *Handler) removeTicketItem(c *gin.Context) {
	lc, principal, ok := h.loadTicket(c, false)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := lc.RemoveItem(c.Request.Context(), itemID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.View(principal))
}

func (h *Handler) payTicket(c *gin.Context) {
	lc, principal, ok := h.loadTicket(c, false)
	if !ok {
		return
	}
	var in model.MarkPaidInput
	if !bindJSON(c, &in) {
		return
	}
	if err := lc.MarkPaid(c.Request.Context(), in.PaymentMethod); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.View(principal))
}

func (h *Handler) cancelTicket(c *gin.Context) {
	lc, principal, ok := h.loadTicket(c, false)
	if !ok {
		return
	}
	if err := lc.Cancel(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.View(principal))
}

// deleteTicket soft-deletes by default. hard=true purges a ticket that is
// already soft-deleted.
func (h *Handler) deleteTicket(c *gin.Context) {
	hard := queryBool(c, "hard")
	lc, principal, ok := h.loadTicket(c, hard)
	if !ok {
		return
	}
	if hard {
		if err := lc.HardDelete(c.Request.Context(), principal); err != nil {
			h.handleError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	if err := lc.SoftDelete(c.Request.Context(), queryBool(c, "return_materials")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.View(principal))
}

func (h *Handler) printableTicket(c *gin.Context) (model.Ticket, bool) {
	lc, principal, ok := h.loadTicket(c, queryBool(c, "include_deleted"))
	if !ok {
		return model.Ticket{}, false
	}
	if !lc.View(principal).Actions.Print {
		c.JSON(http.StatusConflict, gin.H{"error": "only paid or canceled tickets can be printed"})
		return model.Ticket{}, false
	}
	return lc.Ticket(), true
}

func (h *Handler) printTicket(c *gin.Context) {
	ticket, ok := h.printableTicket(c)
	if !ok {
		return
	}
	page, err := printout.TicketHTML(ticket, h.deps.Shop)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *Handler) ticketReceipt(c *gin.Context) {
	ticket, ok := h.printableTicket(c)
	if !ok {
		return
	}
	content, err := h.deps.Receipts.TicketReceipt(ticket)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"ticket-%d.pdf\"", ticket.ID))
	c.Data(http.StatusOK, "application/pdf", content)
}
