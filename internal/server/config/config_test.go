package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenValidity)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenValidity)
	assert.Equal(t, 10*time.Minute, cfg.DeviceCodeValidity)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.SiteURL)
}

func TestParseJson_OverlaysProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	payload := map[string]any{
		"endpoint_addr_http":   ":9999",
		"site_url":             "https://app.example.com",
		"device_code_validity": "5m",
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"test", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "https://app.example.com", cfg.SiteURL)
	assert.Equal(t, 5*time.Minute, cfg.DeviceCodeValidity)
	// untouched fields keep their defaults
	assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenValidity)
}

func TestParseFlags_OverridesDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"test", "-a", ":7070", "-s", "flagsecret", "-v", "3"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "flagsecret", cfg.SecretKey)
	assert.Equal(t, 3*time.Minute, cfg.DeviceCodeValidity)
}
