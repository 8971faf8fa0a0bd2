// Package services contains server-side business logic. This file implements
// DeviceAuthService, which brokers the human-in-the-loop pairing handshake
// between an unauthenticated CLI process and an authenticated browser
// session.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/config"
	"github.com/commis-dev/commis/internal/server/models"
	"github.com/commis-dev/commis/internal/server/repositories/repomanager"
)

const (
	deviceCodeBytes        = 32
	verificationCodeLength = 8

	// How many times code generation retries before giving up when it keeps
	// colliding with an active session. With a 31-char alphabet and 8
	// positions a single collision is already vanishingly unlikely.
	maxCodeAttempts = 5
)

// DeviceCodeGrant is the result of starting a pairing attempt.
type DeviceCodeGrant struct {
	DeviceCode      string
	Code            string
	ExpiresAt       time.Time
	VerificationURL string
}

// PollResult is the outcome of one poll. Verified=false is the expected
// steady state while the user is still confirming in the browser.
type PollResult struct {
	Verified     bool
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// DeviceSessionView is the read-only session state exposed to the dashboard
// while it renders the confirmation page.
type DeviceSessionView struct {
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// DeviceAuthService implements the pairing session state machine:
// created -> verified -> claimed(deleted), or created -> expired.
type DeviceAuthService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	tokens   *TokenService
	siteURL  string
	validity time.Duration
	now      func() time.Time
}

// NewDeviceAuthService constructs a DeviceAuthService using repositories,
// the token issuer, and server config.
func NewDeviceAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, cfg *config.Config) *DeviceAuthService {
	return &DeviceAuthService{
		db:       db,
		repos:    m,
		tokens:   tokens,
		siteURL:  cfg.SiteURL,
		validity: cfg.DeviceCodeValidity,
		now:      time.Now,
	}
}

// GenerateDeviceCode creates a fresh pairing session. No authentication is
// required; this is the entry point for an unauthenticated CLI.
func (s *DeviceAuthService) GenerateDeviceCode(ctx context.Context) (*DeviceCodeGrant, error) {
	repo := s.repos.DeviceSessions(s.db)
	now := s.now()

	deviceCode, err := common.MakeRandHexString(deviceCodeBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return nil, common.ErrorInternal
		}
		code, err = common.MakeVerificationCode(verificationCodeLength)
		if err != nil {
			return nil, common.ErrorInternal
		}
		exists, err := repo.ActiveCodeExists(ctx, code, now)
		if err != nil {
			return nil, fmt.Errorf("error checking code uniqueness: %w", err)
		}
		if !exists {
			break
		}
	}

	session := &models.DeviceSession{
		DeviceCode: deviceCode,
		Code:       code,
		Verified:   false,
		ExpiresAt:  now.Add(s.validity),
	}
	if err := repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating device session: %w", err)
	}

	return &DeviceCodeGrant{
		DeviceCode:      deviceCode,
		Code:            code,
		ExpiresAt:       session.ExpiresAt,
		VerificationURL: s.siteURL + "/auth/device",
	}, nil
}

// VerifyDeviceCode records the authenticated browser user's confirmation of
// a pending pairing session. It does not issue tokens; claiming is a
// separate, unauthenticated step.
func (s *DeviceAuthService) VerifyDeviceCode(ctx context.Context, userID string, code string) error {
	repo := s.repos.DeviceSessions(s.db)

	session, err := repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidCode
		}
		return fmt.Errorf("error searching device session: %w", err)
	}
	if session.Expired(s.now()) {
		return common.ErrCodeExpired
	}
	if session.Verified {
		return common.ErrCodeAlreadyUsed
	}

	if err := repo.MarkVerified(ctx, session.ID, userID); err != nil {
		return fmt.Errorf("error verifying device session: %w", err)
	}
	return nil
}

// PollDeviceCode is the CLI's claim step. Before verification it reports
// Verified=false without touching the session. After verification it mints
// a token pair and deletes the session in one transaction, so the plaintext
// credentials are returned exactly once.
func (s *DeviceAuthService) PollDeviceCode(ctx context.Context, deviceCode string, deviceInfo *models.DeviceInfo) (*PollResult, error) {
	repo := s.repos.DeviceSessions(s.db)

	session, err := repo.FindByDeviceCode(ctx, deviceCode)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCode
		}
		return nil, fmt.Errorf("error searching device session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, common.ErrCodeExpired
	}
	if !session.Verified || session.UserID == nil {
		return &PollResult{Verified: false}, nil
	}

	if _, err := s.repos.Users(s.db).GetByID(ctx, *session.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		pair, issueErr = s.tokens.IssuePair(ctx, tx, *session.UserID, deviceInfo)
		if issueErr != nil {
			return issueErr
		}
		return s.repos.DeviceSessions(tx).Delete(ctx, session.ID)
	}); err != nil {
		return nil, err
	}

	return &PollResult{
		Verified:     true,
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

// GetDeviceSession returns the session state shown by the dashboard's
// confirmation page.
func (s *DeviceAuthService) GetDeviceSession(ctx context.Context, code string) (*DeviceSessionView, error) {
	session, err := s.repos.DeviceSessions(s.db).FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCode
		}
		return nil, fmt.Errorf("error searching device session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, common.ErrCodeExpired
	}
	return &DeviceSessionView{
		Code:      session.Code,
		ExpiresAt: session.ExpiresAt,
		Verified:  session.Verified,
	}, nil
}
