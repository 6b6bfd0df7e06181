package domain

import "time"

type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusRented      PropertyStatus = "rented"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// Property represents a rental listing published by an owner.
type Property struct {
	ID          string
	Title       string
	Description string
	Address     string
	City        string
	State       string
	Country     string
	Rent        int64
	Images      []string
	OwnerID     string
	TenantID    string
	Status      PropertyStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
