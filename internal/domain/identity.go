package domain

import "github.com/google/uuid"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

// Identity is the resolved caller attached to every authenticated request.
// It never carries the password hash.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
