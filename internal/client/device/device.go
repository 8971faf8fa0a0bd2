// Package device derives the stable fingerprint and descriptive metadata
// the CLI reports when claiming a token. The fingerprint is deterministic
// for a given machine and user so re-logins map to the same device entry.
package device

import (
	"fmt"
	"os"
	"os/user"
	"runtime"

	"github.com/commis-dev/commis/internal/cryptox"
)

// Info describes the device a token is issued to.
type Info struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Hostname   string `json:"hostname"`
	Platform   string `json:"platform"`
}

// Seams for tests.
var (
	osHostname  = os.Hostname
	currentUser = user.Current
	platform    = func() string { return runtime.GOOS }
)

// Fingerprint returns the first 16 hex chars of
// sha256("hostname-platform-username").
func Fingerprint() string {
	hostname, err := osHostname()
	if err != nil {
		hostname = "unknown"
	}
	username := "unknown"
	if u, err := currentUser(); err == nil {
		username = u.Username
	}

	return cryptox.HashDeviceFingerprint(fmt.Sprintf("%s-%s-%s", hostname, platform(), username))
}

// platformLabel maps GOOS values to the names shown in the dashboard.
func platformLabel(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}

// Collect builds the Info payload sent alongside a claim.
func Collect() *Info {
	hostname, err := osHostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Info{
		DeviceID:   Fingerprint(),
		DeviceName: fmt.Sprintf("%s (%s)", hostname, platformLabel(platform())),
		Hostname:   hostname,
		Platform:   platform(),
	}
}
