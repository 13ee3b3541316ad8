package domain

import "time"

// Role distinguishes customers from administrators.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is the domain model for platform accounts. The phone number is the
// primary contact handle and is stored digits-only; email is optional.
type User struct {
	ID           string
	Name         string
	Phone        string
	Email        *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
