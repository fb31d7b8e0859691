package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestParseReadsClaims(t *testing.T) {
	p := NewParser()
	token := sign(t, jwt.MapClaims{
		"user_id":  42,
		"username": "ana",
		"role":     "ADMIN",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := p.Parse("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestParseStringUserID(t *testing.T) {
	claims, err := NewParser().Parse(sign(t, jwt.MapClaims{"user_id": "7", "rol": "staff"}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestParseExpired(t *testing.T) {
	p := NewParser()
	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := p.Parse(sign(t, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()}))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseGarbage(t *testing.T) {
	_, err := NewParser().Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewParser().Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
