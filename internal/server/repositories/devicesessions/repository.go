// Package devicesessions declares the repository contract for the ephemeral
// CLI pairing sessions.
package devicesessions

import (
	"context"
	"time"

	"github.com/commis-dev/commis/internal/server/models"
)

// Repository defines persistence operations for device pairing sessions.
type Repository interface {
	// Create inserts a new pairing session.
	Create(ctx context.Context, session *models.DeviceSession) error

	// FindByCode looks a session up by its human-entered verification code.
	// Returns common.ErrorNotFound when absent.
	FindByCode(ctx context.Context, code string) (*models.DeviceSession, error)

	// FindByDeviceCode looks a session up by its opaque device code.
	// Returns common.ErrorNotFound when absent.
	FindByDeviceCode(ctx context.Context, deviceCode string) (*models.DeviceSession, error)

	// ActiveCodeExists reports whether an unexpired session already uses the
	// given verification code. Used to keep codes unique during their window.
	ActiveCodeExists(ctx context.Context, code string, now time.Time) (bool, error)

	// MarkVerified sets user_id and flips verified to true.
	MarkVerified(ctx context.Context, id string, userID string) error

	// Delete removes a session by id. Deleting a non-existent session is not
	// an error.
	Delete(ctx context.Context, id string) error
}
