// Package config handles configuration for the Commis CLI: defaults, an
// optional JSON config file, and environment overrides. Command-line
// overrides are applied by the cobra layer on top of the loaded Config.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/commis-dev/commis/internal/timex"
)

// Config holds runtime settings for the Commis CLI.
//
// Fields:
//   - ServerURL: base URL of the Commis API server.
//   - CredentialsBackend: where tokens are cached, "file" or "keyring".
//   - CredentialsPath: path of the JSON credential cache ("" = default
//     ~/.commis/credentials.json). Ignored by the keyring backend.
//   - PollInterval / PollAttempts: device pairing poll cadence.
type Config struct {
	ServerURL          string
	CredentialsBackend string
	CredentialsPath    string
	PollInterval       time.Duration
	PollAttempts       int
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the poll interval either as a string
// like "5s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL          string         `json:"server_url"`
	CredentialsBackend string         `json:"credentials_backend"`
	CredentialsPath    string         `json:"credentials_path"`
	PollInterval       timex.Duration `json:"poll_interval"`
	PollAttempts       int            `json:"poll_attempts"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.CredentialsBackend = "file"
	c.CredentialsPath = ""
	c.PollInterval = 5 * time.Second
	c.PollAttempts = 60
}

// DefaultConfigPath returns the default location of the CLI config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".commis", "config.json")
}

// Load constructs a Config by applying defaults, then overlaying values from
// the JSON file at path (or the default path when path is empty), then from
// the COMMIS_SERVER environment variable. A missing file is not an error;
// a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		if err := overlayJson(cfg, path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("COMMIS_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	return cfg, nil
}

func overlayJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.CredentialsBackend != "" {
		cfg.CredentialsBackend = jc.CredentialsBackend
	}
	if jc.CredentialsPath != "" {
		cfg.CredentialsPath = jc.CredentialsPath
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.PollAttempts != 0 {
		cfg.PollAttempts = jc.PollAttempts
	}
	return nil
}
