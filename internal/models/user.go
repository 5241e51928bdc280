// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the coarse permission level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account created on first federated login.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	Email           string    `gorm:"index" json:"email,omitempty"`
	Image           string    `json:"image"`
	Role            Role      `gorm:"type:varchar(16);not null;default:USER" json:"role,omitempty"`
	Provider        string    `gorm:"not null;uniqueIndex:idx_provider_subject" json:"-"`
	ProviderSubject string    `gorm:"not null;uniqueIndex:idx_provider_subject" json:"-"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
