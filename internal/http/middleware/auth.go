package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/ops-admin/internal/backend"
	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/session"
)

const (
	SessionCookie = "admin_session"
	SessionHeader = "X-Session-ID"
	LoginPath     = "/login"

	sessionKey = "session"
)

// SessionSource resolves a session id to a live session.
type SessionSource interface {
	Get(ctx context.Context, id string) (*model.Session, error)
}

// SessionID reads the session id from the cookie, then the header.
func SessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}
	return c.GetHeader(SessionHeader)
}

// Auth requires a live session and scopes the request context to its
// backend access token. A failing session store answers 503 and leaves the
// cookie alone; only a missing or expired session sends the client to login.
func Auth(sessions SessionSource, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := SessionID(c)
		if id == "" {
			Unauthorized(c, "authentication required")
			return
		}
		s, err := sessions.Get(c.Request.Context(), id)
		if errors.Is(err, session.ErrNoSession) {
			Unauthorized(c, "session expired")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable, try again later"})
			return
		}

		c.Set(sessionKey, s)
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), s.AccessToken))
		c.Next()
	}
}

// Unauthorized aborts with 401 and points the client at the login view.
func Unauthorized(c *gin.Context, msg string) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": LoginPath})
}

func MustSession(c *gin.Context) (*model.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := value.(*model.Session)
	return s, ok && s != nil
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	s, ok := MustSession(c)
	if !ok {
		return model.Principal{}, false
	}
	return s.Principal, true
}
