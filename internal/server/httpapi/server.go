// Package httpapi exposes the Commis authentication service over HTTP.
// Device pairing and token lifecycle endpoints are public (the CLI has no
// credentials yet when it calls them); account endpoints require a browser
// session JWT and the introspection endpoints require an API token.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/commis-dev/commis/internal/logging"
	"github.com/commis-dev/commis/internal/server/config"
	"github.com/commis-dev/commis/internal/server/services"
)

// Server groups the HTTP handlers and their dependencies.
type Server struct {
	log       logging.Logger
	users     *services.UserService
	devices   *services.DeviceAuthService
	tokens    *services.TokenService
	secretKey []byte
}

// NewServer constructs a Server from the service layer and config.
func NewServer(log logging.Logger, users *services.UserService, devices *services.DeviceAuthService, tokens *services.TokenService, cfg *config.Config) *Server {
	return &Server{
		log:       log,
		users:     users,
		devices:   devices,
		tokens:    tokens,
		secretKey: []byte(cfg.SecretKey),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	v1 := r.Group("/v1")

	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)

	v1.POST("/device/code", s.handleGenerateDeviceCode)
	v1.POST("/device/poll", s.handlePollDeviceCode)
	v1.POST("/token/refresh", s.handleRefreshToken)
	v1.POST("/token/revoke", s.handleRevokeToken)

	session := v1.Group("", s.sessionAuth())
	session.POST("/device/verify", s.handleVerifyDeviceCode)
	session.GET("/device/session", s.handleGetDeviceSession)

	authed := v1.Group("", s.tokenAuth())
	authed.GET("/me", s.handleMe)
	authed.GET("/tokens", s.handleListTokens)
	authed.DELETE("/tokens/:id", s.handleDeleteToken)
	authed.GET("/devices", s.handleListDevices)

	return r
}
