package domain

import "time"

// UserRole distinguishes design consumers from design authors.
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleTechnician UserRole = "technician"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleTechnician
}

// User is the domain model for an authenticated account. The ID is the
// identity provider's subject claim; rows are created on first login and
// never overwritten afterwards.
type User struct {
	ID        string
	FullName  string
	Email     string
	Role      UserRole
	CreatedAt time.Time
}
