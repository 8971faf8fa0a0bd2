package devicesessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new pairing session, generating its id if unset.
func (r *PostgresRepository) Create(ctx context.Context, session *models.DeviceSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	query := `
		INSERT INTO device_sessions (id, device_code, code, verified, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, session.ID, session.DeviceCode, session.Code, session.Verified, session.ExpiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// FindByCode returns the session row for the given verification code.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*models.DeviceSession, error) {
	query := `
		SELECT id, device_code, code, user_id, verified, expires_at, created_at
		FROM device_sessions
		WHERE code = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

// FindByDeviceCode returns the session row for the given device code.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByDeviceCode(ctx context.Context, deviceCode string) (*models.DeviceSession, error) {
	query := `
		SELECT id, device_code, code, user_id, verified, expires_at, created_at
		FROM device_sessions
		WHERE device_code = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, deviceCode))
}

// ActiveCodeExists reports whether an unexpired session already holds code.
func (r *PostgresRepository) ActiveCodeExists(ctx context.Context, code string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM device_sessions
			WHERE code = $1 AND expires_at > $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// MarkVerified records the confirming user and flips the verified flag.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, userID string) error {
	query := `
		UPDATE device_sessions
		SET user_id = $2, verified = TRUE
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes a session by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM device_sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.DeviceSession, error) {
	session := &models.DeviceSession{}
	var userID sql.NullString
	if err := row.Scan(&session.ID, &session.DeviceCode, &session.Code, &userID, &session.Verified, &session.ExpiresAt, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if userID.Valid {
		session.UserID = &userID.String
	}
	return session, nil
}
