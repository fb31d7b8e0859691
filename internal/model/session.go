package model

import (
	"time"

	"github.com/google/uuid"
)

// Tokens are issued by the backend's auth service and handed to the gateway on login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type Session struct {
	ID           uuid.UUID
	AccessToken  string
	RefreshToken string
	User         User
	Principal    Principal
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
