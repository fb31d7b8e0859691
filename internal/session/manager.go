// Package session owns the gateway's login sessions: the backend tokens and
// the user snapshot, created on login and torn down on logout or expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/ops-admin/internal/auth"
	"github.com/nurpe/ops-admin/internal/model"
)

var ErrInvalidTokens = errors.New("invalid session tokens")

type Manager struct {
	store         Store
	parser        *auth.Parser
	ttl           time.Duration
	elevatedRoles []string
	now           func() time.Time
	log           zerolog.Logger
}

func NewManager(store Store, parser *auth.Parser, ttl time.Duration, elevatedRoles []string, log zerolog.Logger) *Manager {
	return &Manager{
		store:         store,
		parser:        parser,
		ttl:           ttl,
		elevatedRoles: elevatedRoles,
		now:           time.Now,
		log:           log.With().Str("component", "session").Logger(),
	}
}

// Init creates a session from tokens issued by the backend's login endpoint.
func (m *Manager) Init(ctx context.Context, tokens model.Tokens) (*model.Session, error) {
	if strings.TrimSpace(tokens.AccessToken) == "" {
		return nil, fmt.Errorf("%w: access_token is required", ErrInvalidTokens)
	}
	claims, err := m.parser.Parse(tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTokens, err)
	}

	// The signed claims identify the user. The posted user body only fills
	// what the token leaves out, so it can never raise the role.
	userID := claims.UserID
	if userID == 0 {
		userID = tokens.User.ID
	}
	username := firstNonEmpty(claims.Username, tokens.User.Username)
	role := firstNonEmpty(claims.Role, tokens.User.Role)

	now := m.now()
	s := model.Session{
		ID:           uuid.New(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         tokens.User,
		Principal:    model.NewPrincipal(userID, username, role, m.elevatedRoles),
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	s.User.ID = userID
	s.User.Username = username
	s.User.Role = s.Principal.Role

	if err := m.store.Save(ctx, s); err != nil {
		m.log.Error().Err(err).Msg("save session failed")
		return nil, err
	}
	m.log.Info().Str("session_id", s.ID.String()).Str("username", username).Msg("session started")
	return &s, nil
}

// Get returns a live session. Expired sessions are removed on access.
func (m *Manager) Get(ctx context.Context, rawID string) (*model.Session, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrNoSession
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrNoSession
	}
	return s, nil
}

// Teardown discards the session and its tokens. Unknown ids are not an error.
func (m *Manager) Teardown(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Error().Err(err).Str("session_id", id.String()).Msg("delete session failed")
		return err
	}
	m.log.Info().Str("session_id", id.String()).Msg("session ended")
	return nil
}

// Sweep removes expired sessions until ctx is done.
func (m *Manager) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.store.DeleteExpired(ctx, m.now())
			if err != nil {
				m.log.Warn().Err(err).Msg("sweep sessions failed")
				continue
			}
			if n > 0 {
				m.log.Debug().Int64("removed", n).Msg("expired sessions removed")
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
