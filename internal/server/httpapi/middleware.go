package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/server/auth"
)

// Context keys set by the auth middlewares.
const (
	ctxUserID  = "userID"
	ctxTokenID = "tokenID"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.log.Info(ctx.Request.Context(), "http request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, common.BearerPrefix)
	return token, token != ""
}

// sessionAuth guards dashboard endpoints with the browser session JWT.
func (s *Server) sessionAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}
		userID, err := auth.GetUserIDFromSessionToken(token, s.secretKey)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}
		ctx.Set(ctxUserID, userID)
		ctx.Next()
	}
}

// tokenAuth guards CLI endpoints with an opaque API token, validated by
// hash lookup.
func (s *Server) tokenAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}
		record, err := s.tokens.Introspect(ctx.Request.Context(), token)
		if err != nil {
			writeError(ctx, err)
			ctx.Abort()
			return
		}
		ctx.Set(ctxUserID, record.UserID)
		ctx.Set(ctxTokenID, record.ID)
		ctx.Next()
	}
}
