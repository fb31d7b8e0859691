package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/ops-admin/internal/http/middleware"
	"github.com/nurpe/ops-admin/internal/model"
)

type sessionResponse struct {
	SessionID string     `json:"session_id"`
	User      model.User `json:"user"`
	Role      string     `json:"role"`
	Elevated  bool       `json:"elevated"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func newSessionResponse(s *model.Session) sessionResponse {
	return sessionResponse{
		SessionID: s.ID.String(),
		User:      s.User,
		Role:      s.Principal.Role,
		Elevated:  s.Principal.IsElevated(),
		ExpiresAt: s.ExpiresAt,
	}
}

// startSession turns tokens issued by the backend's login endpoint into a
// gateway session.
func (h *Handler) startSession(c *gin.Context) {
	var tokens model.Tokens
	if !bindJSON(c, &tokens) {
		return
	}

	s, err := h.deps.Sessions.Init(c.Request.Context(), tokens)
	if err != nil {
		if isSessionError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.handleError(c, err)
		return
	}

	maxAge := int(h.deps.SessionTTL / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, s.ID.String(), maxAge, "/", "", h.deps.SecureCookies, true)
	c.JSON(http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) currentSession(c *gin.Context) {
	s, ok := middleware.MustSession(c)
	if !ok {
		middleware.Unauthorized(c, "authentication required")
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) endSession(c *gin.Context) {
	s, ok := middleware.MustSession(c)
	if !ok {
		middleware.Unauthorized(c, "authentication required")
		return
	}
	if err := h.deps.Sessions.Teardown(c.Request.Context(), s.ID); err != nil {
		h.handleError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.deps.SecureCookies, true)
	c.Status(http.StatusNoContent)
}
