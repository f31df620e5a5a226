// Package models defines the persistent entities stored in PostgreSQL.
package models

import (
	"database/sql"
	"time"
)

// Role names seeded by the initial migration.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Role struct {
	ID   string
	Name string
}

// User is an identity record. IsActive stays false until the email address
// is verified.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	IsActive       bool
	Avatar         sql.NullString
	RoleID         string
	RoleName       string
	CreatedAt      time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.RoleName == RoleAdmin
}
