package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/cryptox"
	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/config"
	"github.com/commis-dev/commis/internal/server/models"
	"github.com/commis-dev/commis/internal/server/repositories/apitokens"
	"github.com/commis-dev/commis/internal/server/repositories/repomanager"
)

const tokenBytes = 32

// TokenPair carries freshly minted plaintext credentials. This is the only
// place plaintext tokens exist; the database stores keyed hashes.
type TokenPair struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenService issues, rotates, revokes and introspects API token pairs.
type TokenService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	secretKey       []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
	now             func() time.Time
}

// NewTokenService constructs a TokenService from repositories and config.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:              db,
		repos:           m,
		secretKey:       []byte(cfg.SecretKey),
		accessValidity:  cfg.AccessTokenValidity,
		refreshValidity: cfg.RefreshTokenValidity,
		now:             time.Now,
	}
}

// IssuePair mints an access/refresh token pair for a user and stores only
// their hashes. It runs against the passed DBTX so callers can bundle it
// with other writes in one transaction.
func (s *TokenService) IssuePair(ctx context.Context, db dbx.DBTX, userID string, deviceInfo *models.DeviceInfo) (*TokenPair, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshToken, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := s.now()
	record := &models.APIToken{
		UserID:           userID,
		TokenHash:        cryptox.HashToken(token, s.secretKey),
		RefreshTokenHash: cryptox.HashToken(refreshToken, s.secretKey),
		ExpiresAt:        now.Add(s.accessValidity),
		RefreshExpiresAt: now.Add(s.refreshValidity),
	}
	if deviceInfo != nil {
		record.DeviceID = deviceInfo.DeviceID
		record.DeviceName = deviceInfo.DeviceName
		record.DeviceHostname = deviceInfo.Hostname
		record.DevicePlatform = deviceInfo.Platform
	}

	if err := s.repos.APITokens(db).Create(ctx, record); err != nil {
		return nil, fmt.Errorf("error creating api token: %w", err)
	}

	return &TokenPair{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    record.ExpiresAt,
	}, nil
}

// Refresh rotates a token pair in place. Both the access and the refresh
// credential are replaced on every call, so the presented refresh token is
// single-use. An expired refresh token deletes the row outright.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	hash := cryptox.HashToken(refreshToken, s.secretKey)

	record, err := s.repos.APITokens(s.db).FindByRefreshTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("error searching api token: %w", err)
	}

	now := s.now()
	if !record.RefreshExpiresAt.After(now) {
		if err := s.repos.APITokens(s.db).Delete(ctx, record.ID); err != nil {
			return nil, fmt.Errorf("error deleting expired api token: %w", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	if _, err := s.repos.Users(s.db).GetByID(ctx, record.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}

	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	newRefreshToken, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	rotation := apitokens.Rotation{
		TokenHash:        cryptox.HashToken(token, s.secretKey),
		RefreshTokenHash: cryptox.HashToken(newRefreshToken, s.secretKey),
		ExpiresAt:        now.Add(s.accessValidity),
		RefreshExpiresAt: now.Add(s.refreshValidity),
		LastUsedAt:       now,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.APITokens(tx).Rotate(ctx, record.ID, rotation)
	}); err != nil {
		return nil, fmt.Errorf("error rotating api token: %w", err)
	}

	return &TokenPair{
		Token:        token,
		RefreshToken: newRefreshToken,
		ExpiresAt:    rotation.ExpiresAt,
	}, nil
}

// Revoke deletes the token pair matching an access token. Unknown tokens
// are not an error, so calling it twice is safe.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	hash := cryptox.HashToken(token, s.secretKey)

	record, err := s.repos.APITokens(s.db).FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error searching api token: %w", err)
	}
	if err := s.repos.APITokens(s.db).Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("error deleting api token: %w", err)
	}
	return nil
}

// Introspect validates an access token and returns its owner. A token whose
// expiry boundary has been reached is rejected. Successful lookups record
// usage time.
func (s *TokenService) Introspect(ctx context.Context, token string) (*models.APIToken, error) {
	hash := cryptox.HashToken(token, s.secretKey)

	record, err := s.repos.APITokens(s.db).FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching api token: %w", err)
	}

	now := s.now()
	if !record.ExpiresAt.After(now) {
		return nil, common.ErrorUnauthorized
	}

	if err := s.repos.APITokens(s.db).TouchLastUsed(ctx, record.ID, now); err != nil {
		return nil, fmt.Errorf("error updating api token: %w", err)
	}
	return record, nil
}

// ListByUser returns all token records belonging to a user.
func (s *TokenService) ListByUser(ctx context.Context, userID string) ([]*models.APIToken, error) {
	records, err := s.repos.APITokens(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing api tokens: %w", err)
	}
	return records, nil
}

// DeleteToken removes a token by id on behalf of its owner. A record owned
// by someone else is reported as not found rather than forbidden.
func (s *TokenService) DeleteToken(ctx context.Context, userID string, id string) error {
	record, err := s.repos.APITokens(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error searching api token: %w", err)
	}
	if record.UserID != userID {
		return common.ErrorNotFound
	}
	if err := s.repos.APITokens(s.db).Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("error deleting api token: %w", err)
	}
	return nil
}
