// Package api is the CLI's HTTP client for the Commis server. It speaks the
// /v1 JSON API and translates error bodies back into the shared sentinel
// errors.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/commis-dev/commis/internal/client/device"
	"github.com/commis-dev/commis/internal/common"
)

const requestTimeout = 10 * time.Second

// Client wraps a resty client bound to the server base URL.
type Client struct {
	http *resty.Client
}

// NewClient constructs a Client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// DeviceCodeGrant mirrors the POST /v1/device/code response. Timestamps are
// epoch milliseconds.
type DeviceCodeGrant struct {
	DeviceCode      string `json:"deviceCode"`
	Code            string `json:"code"`
	ExpiresAt       int64  `json:"expiresAt"`
	VerificationURL string `json:"verificationUrl"`
}

// PollResult mirrors the POST /v1/device/poll response.
type PollResult struct {
	Verified     bool   `json:"verified"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// TokenPair mirrors the POST /v1/token/refresh response.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// UserInfo mirrors the GET /v1/me response.
type UserInfo struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenInfo is one row of the GET /v1/tokens response.
type TokenInfo struct {
	ID             string `json:"id"`
	ExpiresAt      int64  `json:"expiresAt"`
	DeviceID       string `json:"deviceId"`
	DeviceName     string `json:"deviceName"`
	DeviceHostname string `json:"deviceHostname"`
	DevicePlatform string `json:"devicePlatform"`
	LastUsedAt     int64  `json:"lastUsedAt"`
	CreatedAt      int64  `json:"createdAt"`
	Current        bool   `json:"current"`
}

// DeviceEntry is one row of the GET /v1/devices response.
type DeviceEntry struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Hostname   string `json:"hostname"`
	Platform   string `json:"platform"`
	LastUsedAt int64  `json:"lastUsedAt"`
}

func (c *Client) GenerateDeviceCode(ctx context.Context) (*DeviceCodeGrant, error) {
	var out DeviceCodeGrant
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Post("/v1/device/code")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) PollDeviceCode(ctx context.Context, deviceCode string, info *device.Info) (*PollResult, error) {
	var out PollResult
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"deviceCode": deviceCode, "deviceInfo": info}).
		SetResult(&out).
		Post("/v1/device/poll")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var out TokenPair
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"refreshToken": refreshToken}).
		SetResult(&out).
		Post("/v1/token/refresh")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) RevokeToken(ctx context.Context, token string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		Post("/v1/token/revoke")
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) Me(ctx context.Context, token string) (*UserInfo, error) {
	var out UserInfo
	resp, err := c.http.R().SetContext(ctx).
		SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+token).
		SetResult(&out).
		Get("/v1/me")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) ListTokens(ctx context.Context, token string) ([]TokenInfo, error) {
	var out struct {
		Tokens []TokenInfo `json:"tokens"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+token).
		SetResult(&out).
		Get("/v1/tokens")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Tokens, nil
}

func (c *Client) DeleteToken(ctx context.Context, token string, id string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+token).
		Delete("/v1/tokens/" + id)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) ListDevices(ctx context.Context, token string) ([]DeviceEntry, error) {
	var out struct {
		Devices []DeviceEntry `json:"devices"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+token).
		SetResult(&out).
		Get("/v1/devices")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Devices, nil
}

func (c *Client) Register(ctx context.Context, email, name, password string) (*UserInfo, error) {
	var out UserInfo
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "name": name, "password": password}).
		SetResult(&out).
		Post("/v1/auth/register")
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}
