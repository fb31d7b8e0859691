package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/ops-admin/internal/model"
	"github.com/nurpe/ops-admin/internal/session"
)

// SessionRepository keeps gateway sessions in the admin_sessions table so
// they survive restarts and are shared between replicas.
type SessionRepository struct {
	db            *gorm.DB
	elevatedRoles []string
}

func NewSessionRepository(db *gorm.DB, elevatedRoles []string) *SessionRepository {
	return &SessionRepository{db: db, elevatedRoles: elevatedRoles}
}

type sessionRow struct {
	ID           uuid.UUID
	AccessToken  string
	RefreshToken string
	UserID       int64
	Username     string
	Role         string
	UserData     string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (r *SessionRepository) Save(ctx context.Context, s model.Session) error {
	row, err := toSessionRow(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO admin_sessions (id, access_token, refresh_token, user_id, username, role, user_data, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?::jsonb, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			user_id = EXCLUDED.user_id,
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			user_data = EXCLUDED.user_data,
			expires_at = EXCLUDED.expires_at
	`, row.ID, row.AccessToken, row.RefreshToken, row.UserID, row.Username, row.Role, row.UserData, row.CreatedAt, row.ExpiresAt).Error
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var row sessionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, access_token, refresh_token, user_id, username, role, user_data::text AS user_data, created_at, expires_at
		FROM admin_sessions
		WHERE id = ?
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, session.ErrNoSession
	}
	return fromSessionRow(row, r.elevatedRoles)
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM admin_sessions WHERE id = ?`, id).Error
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM admin_sessions WHERE expires_at <= ?`, now)
	return res.RowsAffected, res.Error
}

func toSessionRow(s model.Session) (sessionRow, error) {
	data, err := json.Marshal(s.User)
	if err != nil {
		return sessionRow{}, fmt.Errorf("encode session user: %w", err)
	}
	return sessionRow{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.Principal.UserID,
		Username:     s.Principal.Username,
		Role:         s.Principal.Role,
		UserData:     string(data),
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}, nil
}

func fromSessionRow(row sessionRow, elevatedRoles []string) (*model.Session, error) {
	var user model.User
	if row.UserData != "" {
		if err := json.Unmarshal([]byte(row.UserData), &user); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
	}
	return &model.Session{
		ID:           row.ID,
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		User:         user,
		Principal:    model.NewPrincipal(row.UserID, row.Username, row.Role, elevatedRoles),
		CreatedAt:    row.CreatedAt,
		ExpiresAt:    row.ExpiresAt,
	}, nil
}
