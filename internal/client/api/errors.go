package api

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/commis-dev/commis/internal/common"
)

// sentinelByMessage maps the server's error strings back onto the shared
// sentinels, so errors.Is works across the wire.
var sentinelByMessage = map[string]error{
	common.ErrInvalidCode.Error():         common.ErrInvalidCode,
	common.ErrCodeExpired.Error():         common.ErrCodeExpired,
	common.ErrCodeAlreadyUsed.Error():     common.ErrCodeAlreadyUsed,
	common.ErrInvalidRefreshToken.Error(): common.ErrInvalidRefreshToken,
	common.ErrRefreshTokenExpired.Error(): common.ErrRefreshTokenExpired,
	common.ErrUserNotFound.Error():        common.ErrUserNotFound,
	common.ErrorUnauthorized.Error():      common.ErrorUnauthorized,
	common.ErrorAlreadyExists.Error():     common.ErrorAlreadyExists,
	common.ErrorNotFound.Error():          common.ErrorNotFound,
	common.ErrorInternal.Error():          common.ErrorInternal,
}

func apiError(resp *resty.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		if sentinel, ok := sentinelByMessage[body.Error]; ok {
			return sentinel
		}
		return fmt.Errorf("server error: %s", body.Error)
	}
	return fmt.Errorf("server error: status %d", resp.StatusCode())
}
