// Package auth resolves sessions from signed tokens, talks to the identity
// provider, and holds the authorization guard.
package auth

import "dealboard/internal/models"

// Session is the authenticated caller of a request. A nil *Session is an
// anonymous caller.
type Session struct {
	ID    uint        `json:"id"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Image string      `json:"image"`
}

// NewSession builds the session view of user.
func NewSession(user *models.User) *Session {
	return &Session{
		ID:    user.ID,
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// UserID returns the caller's id, or 0 for an anonymous caller.
func (s *Session) UserID() uint {
	if s == nil {
		return 0
	}
	return s.ID
}
