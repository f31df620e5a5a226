// Package contacts declares the repository contract for address-book records.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// Repository defines storage operations for contacts. Owner-scoped methods
// never return another user's records; Admin variants read across owners.
type Repository interface {
	// Create inserts a new contact. The returned contact has ID, CreatedAt
	// and UpdatedAt populated by the database. A duplicate (owner, email)
	// pair yields common.ErrorAlreadyExists.
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// GetByID returns the contact with the given id owned by ownerID,
	// or common.ErrorNotFound.
	GetByID(ctx context.Context, id, ownerID string) (*models.Contact, error)

	// List returns ownerID's contacts ordered by last name, paginated.
	List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Contact, error)

	// Update replaces the mutable fields of the contact identified by
	// contact.ID and contact.OwnerID.
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// Delete removes the contact with the given id owned by ownerID.
	Delete(ctx context.Context, id, ownerID string) error

	// UpcomingBirthdays returns ownerID's contacts whose birthday falls
	// within the next days days, year boundary included.
	UpcomingBirthdays(ctx context.Context, ownerID string, days int) ([]*models.Contact, error)

	// Admin reads, unscoped by owner.
	GetByIDAdmin(ctx context.Context, id string) (*models.Contact, error)
	ListAdmin(ctx context.Context, skip, limit int) ([]*models.Contact, error)
	UpcomingBirthdaysAdmin(ctx context.Context, days int) ([]*models.Contact, error)
}
