package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commis-dev/commis/internal/common"
)

// writeError maps service errors onto HTTP status codes with an
// {"error": "..."} body. Clients match on the error string, so the
// sentinel texts are part of the wire contract.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCode):
		ctx.JSON(http.StatusNotFound, gin.H{"error": common.ErrInvalidCode.Error()})
	case errors.Is(err, common.ErrCodeExpired):
		ctx.JSON(http.StatusGone, gin.H{"error": common.ErrCodeExpired.Error()})
	case errors.Is(err, common.ErrCodeAlreadyUsed):
		ctx.JSON(http.StatusConflict, gin.H{"error": common.ErrCodeAlreadyUsed.Error()})
	case errors.Is(err, common.ErrInvalidRefreshToken):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrInvalidRefreshToken.Error()})
	case errors.Is(err, common.ErrRefreshTokenExpired):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrRefreshTokenExpired.Error()})
	case errors.Is(err, common.ErrUserNotFound):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrUserNotFound.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		ctx.JSON(http.StatusConflict, gin.H{"error": common.ErrorAlreadyExists.Error()})
	case errors.Is(err, common.ErrorNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": common.ErrorNotFound.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
	}
}
