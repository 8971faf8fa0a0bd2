// Package credstore caches the CLI's API credentials between invocations.
// Two backends exist: a JSON file under the user's home directory and the
// OS keyring.
package credstore

import (
	"errors"
	"time"
)

// ErrNoCredentials is returned by Load when nothing is cached.
var ErrNoCredentials = errors.New("no cached credentials")

// Credentials is the cached token pair. ExpiresAt refers to the access
// token; the refresh token outlives it.
type Credentials struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Store persists Credentials across CLI runs.
type Store interface {
	// Load returns the cached credentials, or ErrNoCredentials.
	Load() (*Credentials, error)

	// Save replaces the cached credentials.
	Save(creds *Credentials) error

	// Clear removes the cache. Clearing an empty store is not an error.
	Clear() error
}
