package domain

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

// Valid reports whether the role is one of the enumerated account types.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleTenant
}

// User represents a registered account of the rental platform.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// Property back-references, resolved from the properties table.
	Properties       []string
	RentedProperties []string
}
