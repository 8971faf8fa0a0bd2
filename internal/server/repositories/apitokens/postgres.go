package apitokens

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

const tokenColumns = `id, user_id, token_hash, refresh_token_hash, expires_at, refresh_expires_at,
		device_id, device_name, device_hostname, device_platform, last_used_at, created_at`

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new credential row, generating its id if unset.
func (r *PostgresRepository) Create(ctx context.Context, token *models.APIToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	query := `
		INSERT INTO api_tokens (id, user_id, token_hash, refresh_token_hash, expires_at, refresh_expires_at,
			device_id, device_name, device_hostname, device_platform)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.RefreshTokenHash,
		token.ExpiresAt, token.RefreshExpiresAt,
		token.DeviceID, token.DeviceName, token.DeviceHostname, token.DevicePlatform,
	); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// FindByID returns the row with the given id.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.APIToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM api_tokens
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByTokenHash returns the row whose access-token hash matches.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByTokenHash(ctx context.Context, hash string) (*models.APIToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM api_tokens
		WHERE token_hash = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, hash))
}

// FindByRefreshTokenHash returns the row whose refresh-token hash matches.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*models.APIToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM api_tokens
		WHERE refresh_token_hash = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, hash))
}

// Rotate replaces both hashes and expiries in place, preserving row identity.
func (r *PostgresRepository) Rotate(ctx context.Context, id string, rotation Rotation) error {
	query := `
		UPDATE api_tokens
		SET token_hash = $2, refresh_token_hash = $3, expires_at = $4, refresh_expires_at = $5, last_used_at = $6
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id,
		rotation.TokenHash, rotation.RefreshTokenHash,
		rotation.ExpiresAt, rotation.RefreshExpiresAt, rotation.LastUsedAt,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// TouchLastUsed stamps last_used_at on the row.
func (r *PostgresRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE api_tokens
		SET last_used_at = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns all credential rows owned by userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.APIToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM api_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tokens []*models.APIToken
	for rows.Next() {
		token, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

// Delete removes a row by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM api_tokens
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.APIToken, error) {
	token, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return token, nil
}

func (r *PostgresRepository) scan(row scannable) (*models.APIToken, error) {
	token := &models.APIToken{}
	var lastUsed sql.NullTime
	if err := row.Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.RefreshTokenHash,
		&token.ExpiresAt, &token.RefreshExpiresAt,
		&token.DeviceID, &token.DeviceName, &token.DeviceHostname, &token.DevicePlatform,
		&lastUsed, &token.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if lastUsed.Valid {
		token.LastUsedAt = &lastUsed.Time
	}
	return token, nil
}
