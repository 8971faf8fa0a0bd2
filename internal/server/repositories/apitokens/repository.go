// Package apitokens declares the repository contract for issued credential
// pairs. Only hashes pass through this interface; plaintext tokens never
// reach the storage layer.
package apitokens

import (
	"context"
	"time"

	"github.com/commis-dev/commis/internal/server/models"
)

// Rotation carries the replacement hash pair and expiries applied to an
// existing credential row during refresh.
type Rotation struct {
	TokenHash        string
	RefreshTokenHash string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
	LastUsedAt       time.Time
}

// Repository defines persistence operations for API tokens.
type Repository interface {
	// Create inserts a new credential row.
	Create(ctx context.Context, token *models.APIToken) error

	// FindByID looks a row up by its identifier.
	// Returns common.ErrorNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.APIToken, error)

	// FindByTokenHash looks a row up by access-token hash.
	// Returns common.ErrorNotFound when absent.
	FindByTokenHash(ctx context.Context, hash string) (*models.APIToken, error)

	// FindByRefreshTokenHash looks a row up by refresh-token hash.
	// Returns common.ErrorNotFound when absent.
	FindByRefreshTokenHash(ctx context.Context, hash string) (*models.APIToken, error)

	// Rotate overwrites both hash fields and expiries of an existing row,
	// keeping its identity. Old hashes become unrecognized immediately.
	Rotate(ctx context.Context, id string, rotation Rotation) error

	// TouchLastUsed stamps last_used_at on a row.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// ListByUser returns all credential rows owned by userID.
	ListByUser(ctx context.Context, userID string) ([]*models.APIToken, error)

	// Delete removes a row by id. Deleting a non-existent row is not an
	// error.
	Delete(ctx context.Context, id string) error
}
