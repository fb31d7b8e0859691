package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/model"
)

func TestSessionRowRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	in := model.Session{
		ID:           uuid.New(),
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         model.User{ID: 3, Username: "luis", FirstName: "Luis", IsActive: true},
		Principal:    model.NewPrincipal(3, "luis", "MANAGER", []string{"MANAGER"}),
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}

	row, err := toSessionRow(in)
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", row.Role)
	assert.Contains(t, row.UserData, `"username":"luis"`)

	out, err := fromSessionRow(row, []string{"MANAGER"})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "Luis", out.User.DisplayName())
	assert.True(t, out.Principal.IsElevated())
	assert.Equal(t, in.ExpiresAt, out.ExpiresAt)
}

func TestSessionRowRebuildsElevationFromConfig(t *testing.T) {
	row := sessionRow{ID: uuid.New(), UserID: 1, Role: "MANAGER"}

	out, err := fromSessionRow(row, []string{"ADMIN"})
	require.NoError(t, err)
	assert.False(t, out.Principal.IsElevated())
}

func TestSessionRowRejectsCorruptUser(t *testing.T) {
	_, err := fromSessionRow(sessionRow{ID: uuid.New(), UserData: "{"}, nil)
	assert.Error(t, err)
}
