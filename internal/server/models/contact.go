package models

import (
	"database/sql"
	"time"
)

// Contact is an address-book record owned by exactly one user.
// The (owner, email) pair is unique.
type Contact struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo sql.NullString
	OwnerID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
