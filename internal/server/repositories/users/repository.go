// Package users declares the repository contract for identity records.
package users

import (
	"context"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// Repository defines storage operations for users. Implementations translate
// sql.ErrNoRows into common.ErrorNotFound and unique-constraint violations
// into common.ErrorAlreadyExists.
type Repository interface {
	// Create inserts a new user with the given role. The returned user has
	// ID, RoleID and CreatedAt populated by the database.
	Create(ctx context.Context, user *models.User, roleName string) (*models.User, error)

	// GetByEmail looks a user up by email, role included.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by primary key, role included.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Activate marks the user's email address as verified.
	Activate(ctx context.Context, id string) error

	// UpdateAvatar stores the avatar URL for the user.
	UpdateAvatar(ctx context.Context, id, url string) error

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}
