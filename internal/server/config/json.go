package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/commis-dev/commis/internal/flagx"
	"github.com/commis-dev/commis/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify durations either as strings like "10m"
// or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	SiteURL              string         `json:"site_url"`
	AccessTokenValidity  timex.Duration `json:"access_token_validity"`
	RefreshTokenValidity timex.Duration `json:"refresh_token_validity"`
	DeviceCodeValidity   timex.Duration `json:"device_code_validity"`
	SessionValidity      timex.Duration `json:"session_validity"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Missing file path means no overlay. Read or
// unmarshal errors panic (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddrHTTP != "" {
		cfg.EndpointAddrHTTP = jc.EndpointAddrHTTP
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.SiteURL != "" {
		cfg.SiteURL = jc.SiteURL
	}
	if jc.AccessTokenValidity.Duration != 0 {
		cfg.AccessTokenValidity = time.Duration(jc.AccessTokenValidity.Duration)
	}
	if jc.RefreshTokenValidity.Duration != 0 {
		cfg.RefreshTokenValidity = time.Duration(jc.RefreshTokenValidity.Duration)
	}
	if jc.DeviceCodeValidity.Duration != 0 {
		cfg.DeviceCodeValidity = time.Duration(jc.DeviceCodeValidity.Duration)
	}
	if jc.SessionValidity.Duration != 0 {
		cfg.SessionValidity = time.Duration(jc.SessionValidity.Duration)
	}
}
