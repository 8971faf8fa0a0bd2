package models

import "time"

// DeviceSession is an ephemeral pairing record linking the CLI's opaque
// device code with the short human-entered verification code.
//
// Lifecycle: created (unverified) -> verified -> claimed (row deleted),
// or created -> expired. The claimed state has no row on purpose; deletion
// is what makes a claim single-use.
type DeviceSession struct {
	ID         string
	DeviceCode string
	Code       string
	UserID     *string
	Verified   bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the session deadline has passed. A deadline equal
// to now counts as expired: the boundary fails closed.
func (s *DeviceSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
