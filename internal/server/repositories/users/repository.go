// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"

	"github.com/commis-dev/commis/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a new user. A duplicate email returns an error.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email. Returns common.ErrorNotFound
	// when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by id. Returns common.ErrorNotFound when
	// absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
