package models

import "time"

// Role of a local user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleTech  Role = "TECH"
)

// User is a locally registered account. Technicians log in by phone.
type User struct {
	ID        string
	Role      Role
	Name      string
	Email     string
	Phone     string
	Protected bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session points at the logged-in user.
type Session struct {
	UserID     string
	LoggedInAt time.Time
}
