package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/auth"
	"github.com/nurpe/ops-admin/internal/model"
)

func accessToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("x"))
	require.NoError(t, err)
	return token
}

func newManager(store Store) *Manager {
	return NewManager(store, auth.NewParser(), time.Hour, []string{"ADMIN"}, zerolog.Nop())
}

func TestInitGetTeardown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newManager(store)

	s, err := m.Init(ctx, model.Tokens{
		AccessToken:  accessToken(t, jwt.MapClaims{"user_id": 5, "role": "admin"}),
		RefreshToken: "refresh",
		User:         model.User{Username: "marta"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, int64(5), s.Principal.UserID)
	assert.Equal(t, int64(5), s.User.ID)
	assert.Equal(t, "marta", s.Principal.Username)
	assert.True(t, s.Principal.IsElevated())

	got, err := m.Get(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "refresh", got.RefreshToken)

	require.NoError(t, m.Teardown(ctx, s.ID))
	_, err = m.Get(ctx, s.ID.String())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestInitPrefersTokenClaims(t *testing.T) {
	m := newManager(NewMemoryStore())

	s, err := m.Init(context.Background(), model.Tokens{
		AccessToken: accessToken(t, jwt.MapClaims{"user_id": 7, "username": "luis", "role": "STAFF"}),
		User:        model.User{ID: 1, Username: "ana", Role: "ADMIN", Email: "ana@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Principal.UserID)
	assert.Equal(t, "luis", s.Principal.Username)
	assert.Equal(t, "STAFF", s.Principal.Role)
	assert.False(t, s.Principal.IsElevated())
	assert.Equal(t, "STAFF", s.User.Role)
	assert.Equal(t, "ana@example.com", s.User.Email)
}

func TestInitRejectsBadTokens(t *testing.T) {
	m := newManager(NewMemoryStore())

	_, err := m.Init(context.Background(), model.Tokens{})
	assert.ErrorIs(t, err, ErrInvalidTokens)

	_, err = m.Init(context.Background(), model.Tokens{AccessToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidTokens)
}

func TestExpiredSessionIsRemoved(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newManager(store)

	s, err := m.Init(ctx, model.Tokens{AccessToken: accessToken(t, jwt.MapClaims{"user_id": 1})})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Get(ctx, s.ID.String())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGetRejectsMalformedID(t *testing.T) {
	_, err := newManager(NewMemoryStore()).Get(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Save(ctx, model.Session{ID: uuid.New(), ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, model.Session{ID: uuid.New(), ExpiresAt: now.Add(time.Minute)}))

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
