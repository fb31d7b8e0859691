package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func originHeader(t *testing.T, environment string, allowed []string, origin string) string {
	t.Helper()
	log := zerolog.Nop()
	router := NewRouter(NewHandler(Deps{}, log), func(c *gin.Context) { c.Next() }, environment, allowed, log)
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Header().Get("Access-Control-Allow-Origin")
}

func TestCORSClosedWithoutConfiguredOrigins(t *testing.T) {
	assert.Empty(t, originHeader(t, "production", nil, "https://elsewhere.example"))
}

func TestCORSOpenInDevelopment(t *testing.T) {
	assert.Equal(t, "http://localhost:5173", originHeader(t, "development", nil, "http://localhost:5173"))
}

func TestCORSConfiguredOrigins(t *testing.T) {
	allowed := []string{"https://admin.example"}
	assert.Equal(t, "https://admin.example", originHeader(t, "production", allowed, "https://admin.example"))
	assert.Empty(t, originHeader(t, "production", allowed, "https://elsewhere.example"))
}
