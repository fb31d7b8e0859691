package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/ops-admin/internal/backend"
	"github.com/nurpe/ops-admin/internal/http/middleware"
	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/printout"
	"github.com/nurpe/ops-admin/internal/service"
	"github.com/nurpe/ops-admin/internal/session"
)

type Sessions interface {
	Init(ctx context.Context, tokens model.Tokens) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Teardown(ctx context.Context, id uuid.UUID) error
}

type UserDirectory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

type ReceiptPrinter interface {
	TicketReceipt(ticket model.Ticket) ([]byte, error)
}

type HealthReporter interface {
	BreakerState() string
}

type Deps struct {
	Sessions  Sessions
	Contracts *service.ContractService
	Tickets   *service.TicketService
	Materials *service.MaterialService
	Users     UserDirectory
	Receipts  ReceiptPrinter
	Health    HealthReporter
	Shop      printout.Shop
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	SessionTTL    time.Duration
}

type Handler struct {
	deps Deps
	log  zerolog.Logger
}

func NewHandler(deps Deps, log zerolog.Logger) *Handler {
	return &Handler{deps: deps, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)
	router.POST("/session", h.startSession)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/session", h.currentSession)
	protected.DELETE("/session", h.endSession)
	protected.GET("/dashboard", h.dashboard)

	protected.GET("/contracts", h.listContracts)
	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts/export", h.exportMaintenance)
	protected.GET("/contracts/:id", h.contractDetail)
	protected.PUT("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.POST("/contracts/:id/complete-maintenance", h.completeMaintenance)
	protected.GET("/contracts/:id/maintenance-records", h.listMaintenanceRecords)
	protected.POST("/contracts/:id/maintenance-records", h.createMaintenanceRecord)
	protected.PUT("/maintenance-records/:id", h.updateMaintenanceRecord)
	protected.DELETE("/maintenance-records/:id", h.deleteMaintenanceRecord)
	protected.GET("/contracts/:id/documents", h.listDocuments)
	protected.POST("/contracts/:id/documents", h.uploadDocument)
	protected.DELETE("/documents/:id", h.deleteDocument)
	protected.GET("/contracts/:id/reports", h.listReports)
	protected.POST("/contracts/:id/reports", h.createReport)
	protected.GET("/reports/:id", h.getReport)
	protected.PUT("/reports/:id", h.updateReport)
	protected.DELETE("/reports/:id", h.deleteReport)

	protected.GET("/tickets", h.listTickets)
	protected.POST("/tickets", h.createTicket)
	protected.GET("/tickets/deleted", h.listDeletedTickets)
	protected.GET("/tickets/:id", h.getTicket)
	protected.DELETE("/tickets/:id", h.deleteTicket)
	protected.POST("/tickets/:id/items", h.addTicketItem)
	protected.DELETE("/tickets/:id/items/:itemId", h.removeTicketItem)
	protected.POST("/tickets/:id/pay", h.payTicket)
	protected.POST("/tickets/:id/cancel", h.cancelTicket)
	protected.GET("/tickets/:id/print", h.printTicket)
	protected.GET("/tickets/:id/receipt.pdf", h.ticketReceipt)

	protected.GET("/materials", h.listMaterials)
	protected.GET("/users", h.listUsers)
}

func (h *Handler) health(c *gin.Context) {
	state := "unknown"
	if h.deps.Health != nil {
		state = h.deps.Health.BreakerState()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": state})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var (
		fields *service.FieldError
		rej    *backend.RejectionError
	)
	switch {
	case errors.Is(err, backend.ErrAuthExpired), errors.Is(err, backend.ErrNoToken):
		h.teardown(c)
		middleware.Unauthorized(c, "session expired")
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields.Fields})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &rej):
		body := gin.H{"error": rej.Detail}
		if len(rej.Fields) > 0 {
			body["fields"] = rej.Fields
		}
		c.JSON(rej.Status, body)
	case errors.Is(err, backend.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend temporarily unavailable, try again later"})
	case backend.IsFault(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable, try again"})
	default:
		h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// teardown discards the current session after the backend refused its token.
func (h *Handler) teardown(c *gin.Context) {
	s, ok := middleware.MustSession(c)
	if !ok {
		return
	}
	if err := h.deps.Sessions.Teardown(c.Request.Context(), s.ID); err != nil {
		h.log.Warn().Err(err).Msg("session teardown failed")
	}
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		middleware.Unauthorized(c, "authentication required")
	}
	return p, ok
}

// sessionKey scopes duplicate-submission detection to the caller's session.
func sessionKey(c *gin.Context) string {
	if s, ok := middleware.MustSession(c); ok {
		return s.ID.String()
	}
	return ""
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func isSessionError(err error) bool {
	return errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrInvalidTokens)
}
