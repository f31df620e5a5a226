// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks a refresh token up by its opaque token string and returns its
	// metadata. Implementations return common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string. Deleting a
	// non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteForUser revokes every refresh token issued to userID. Used when
	// the password changes so stolen sessions die with it.
	DeleteForUser(ctx context.Context, userID string) error
}
