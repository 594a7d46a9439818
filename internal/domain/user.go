package domain

import "time"

// UserRole enumerates access levels.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleUser       UserRole = "USER"
)

// User models anyone who can log in: requesters, technicians and admins.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          UserRole
	EmailVerified bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanManageTickets reports whether the role may change ticket triage fields.
func (r UserRole) CanManageTickets() bool {
	return r == RoleAdmin || r == RoleTechnician
}
