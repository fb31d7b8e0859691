package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/session"
)

type stubSessions struct {
	session *model.Session
	err     error
}

func (s stubSessions) Get(context.Context, string) (*model.Session, error) {
	return s.session, s.err
}

func newAuthRouter(sessions SessionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(sessions, zerolog.Nop()))
	r.GET("/me", func(c *gin.Context) {
		p, _ := MustPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"username": p.Username, "role": p.Role})
	})
	return r
}

func serveWithCookie(r *gin.Engine, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthStoreFailureKeepsCookie(t *testing.T) {
	r := newAuthRouter(stubSessions{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")})

	rec := serveWithCookie(r, uuid.NewString())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	assert.NotContains(t, rec.Body.String(), LoginPath)
}

func TestAuthMissingSessionRedirects(t *testing.T) {
	r := newAuthRouter(stubSessions{err: session.ErrNoSession})

	rec := serveWithCookie(r, uuid.NewString())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookie+"=;")
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)

	rec = serveWithCookie(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSetsPrincipal(t *testing.T) {
	s := &model.Session{ID: uuid.New(), AccessToken: "tok", Principal: model.NewPrincipal(1, "ana", "STAFF", nil)}
	r := newAuthRouter(stubSessions{session: s})

	rec := serveWithCookie(r, s.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"ana","role":"STAFF"}`, rec.Body.String())
}
