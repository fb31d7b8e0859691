package model

import "strings"

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	IsActive  Flag   `json:"is_active"`
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Principal is the authenticated user a session acts for.
type Principal struct {
	UserID   int64
	Username string
	Role     string
	elevated bool
}

func NewPrincipal(userID int64, username, role string, elevatedRoles []string) Principal {
	p := Principal{UserID: userID, Username: username, Role: strings.ToUpper(strings.TrimSpace(role))}
	for _, r := range elevatedRoles {
		if strings.EqualFold(strings.TrimSpace(r), p.Role) && p.Role != "" {
			p.elevated = true
			break
		}
	}
	return p
}

func (p Principal) IsElevated() bool {
	return p.elevated
}
