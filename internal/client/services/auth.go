// Package services contains application services for the Commis CLI.
// This file defines the authentication service: the device pairing login
// flow, the credential cache, and the authenticated-call wrapper that
// transparently rotates an expired access token once.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commis-dev/commis/internal/client/api"
	"github.com/commis-dev/commis/internal/client/credstore"
	"github.com/commis-dev/commis/internal/client/device"
	"github.com/commis-dev/commis/internal/common"
)

// ErrLoginTimeout is returned when the pairing session was never confirmed
// within the polling window.
var ErrLoginTimeout = errors.New("login timed out waiting for verification")

// Client is the server API surface the auth service depends on.
// *api.Client satisfies it.
type Client interface {
	GenerateDeviceCode(ctx context.Context) (*api.DeviceCodeGrant, error)
	PollDeviceCode(ctx context.Context, deviceCode string, info *device.Info) (*api.PollResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	RevokeToken(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*api.UserInfo, error)
	ListTokens(ctx context.Context, token string) ([]api.TokenInfo, error)
	DeleteToken(ctx context.Context, token string, id string) error
	ListDevices(ctx context.Context, token string) ([]api.DeviceEntry, error)
	Register(ctx context.Context, email, name, password string) (*api.UserInfo, error)
}

// AuthService owns the CLI's credential lifecycle.
type AuthService struct {
	client       Client
	store        credstore.Store
	pollInterval time.Duration
	pollAttempts int

	// Test seam around time.After.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAuthService constructs an AuthService.
func NewAuthService(client Client, store credstore.Store, pollInterval time.Duration, pollAttempts int) *AuthService {
	return &AuthService{
		client:       client,
		store:        store,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}

// StartLogin opens a pairing session. The caller shows the returned code
// and URL to the user, then calls WaitForVerification.
func (s *AuthService) StartLogin(ctx context.Context) (*api.DeviceCodeGrant, error) {
	grant, err := s.client.GenerateDeviceCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting login: %w", err)
	}
	return grant, nil
}

// WaitForVerification polls until the session is confirmed and claimed,
// then caches the issued credentials. Expiry of the pairing session is
// terminal; transient poll failures are retried until the attempt budget
// runs out.
func (s *AuthService) WaitForVerification(ctx context.Context, deviceCode string) error {
	info := device.Collect()

	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.pollInterval); err != nil {
				return err
			}
		}

		res, err := s.client.PollDeviceCode(ctx, deviceCode, info)
		if err != nil {
			if errors.Is(err, common.ErrCodeExpired) {
				return err
			}
			continue
		}
		if !res.Verified {
			continue
		}

		creds := &credstore.Credentials{
			Token:        res.Token,
			RefreshToken: res.RefreshToken,
			ExpiresAt:    time.UnixMilli(res.ExpiresAt),
		}
		if err := s.store.Save(creds); err != nil {
			return fmt.Errorf("error caching credentials: %w", err)
		}
		return nil
	}
	return ErrLoginTimeout
}

// Logout revokes the cached token server-side (best effort) and always
// clears the local cache.
func (s *AuthService) Logout(ctx context.Context) error {
	creds, err := s.store.Load()
	if err != nil {
		if errors.Is(err, credstore.ErrNoCredentials) {
			return nil
		}
		return err
	}

	// Revocation failures are not fatal: the local cache is gone either
	// way, and the token still ages out server-side.
	_ = s.client.RevokeToken(ctx, creds.Token)

	return s.store.Clear()
}

// withAuth runs fn with the cached access token. On any failure it
// rotates the pair once via the refresh token and retries exactly once;
// if rotation fails, or no refresh token is cached, the cache is cleared
// and the caller must log in again.
func (s *AuthService) withAuth(ctx context.Context, fn func(token string) error) error {
	creds, err := s.store.Load()
	if err != nil {
		return common.ErrNotAuthenticated
	}

	if err := fn(creds.Token); err == nil {
		return nil
	}
	if creds.RefreshToken == "" {
		_ = s.store.Clear()
		return common.ErrNotAuthenticated
	}

	pair, err := s.client.RefreshToken(ctx, creds.RefreshToken)
	if err != nil {
		_ = s.store.Clear()
		return common.ErrNotAuthenticated
	}

	if err := s.store.Save(&credstore.Credentials{
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.UnixMilli(pair.ExpiresAt),
	}); err != nil {
		return fmt.Errorf("error caching credentials: %w", err)
	}

	return fn(pair.Token)
}

// WhoAmI returns the account that owns the cached credentials.
func (s *AuthService) WhoAmI(ctx context.Context) (*api.UserInfo, error) {
	var out *api.UserInfo
	err := s.withAuth(ctx, func(token string) error {
		me, err := s.client.Me(ctx, token)
		if err != nil {
			return err
		}
		out = me
		return nil
	})
	return out, err
}

// ListTokens returns the caller's issued credentials.
func (s *AuthService) ListTokens(ctx context.Context) ([]api.TokenInfo, error) {
	var out []api.TokenInfo
	err := s.withAuth(ctx, func(token string) error {
		tokens, err := s.client.ListTokens(ctx, token)
		if err != nil {
			return err
		}
		out = tokens
		return nil
	})
	return out, err
}

// DeleteToken removes one of the caller's tokens by id.
func (s *AuthService) DeleteToken(ctx context.Context, id string) error {
	return s.withAuth(ctx, func(token string) error {
		return s.client.DeleteToken(ctx, token, id)
	})
}

// ListDevices returns the caller's paired devices.
func (s *AuthService) ListDevices(ctx context.Context) ([]api.DeviceEntry, error) {
	var out []api.DeviceEntry
	err := s.withAuth(ctx, func(token string) error {
		devices, err := s.client.ListDevices(ctx, token)
		if err != nil {
			return err
		}
		out = devices
		return nil
	})
	return out, err
}

// Register creates an account. It does not log the device in; pairing is a
// separate step.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*api.UserInfo, error) {
	return s.client.Register(ctx, email, name, password)
}
