package models

import "time"

// APIToken is one issued credential pair. TokenHash and RefreshTokenHash are
// keyed one-way hashes; the plaintext values exist only in the issuing
// response and on the client.
type APIToken struct {
	ID               string
	UserID           string
	TokenHash        string
	RefreshTokenHash string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
	DeviceID         string
	DeviceName       string
	DeviceHostname   string
	DevicePlatform   string
	LastUsedAt       *time.Time
	CreatedAt        time.Time
}

// DeviceInfo is the client-supplied device fingerprint and descriptive
// metadata. The server stores it verbatim and never re-derives it.
type DeviceInfo struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Hostname   string `json:"hostname"`
	Platform   string `json:"platform"`
}
