package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commis-dev/commis/internal/server/models"
)

type verifyDeviceCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type pollDeviceCodeRequest struct {
	DeviceCode string             `json:"deviceCode" binding:"required"`
	DeviceInfo *models.DeviceInfo `json:"deviceInfo"`
}

func (s *Server) handleGenerateDeviceCode(ctx *gin.Context) {
	grant, err := s.devices.GenerateDeviceCode(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"deviceCode":      grant.DeviceCode,
		"code":            grant.Code,
		"expiresAt":       grant.ExpiresAt.UnixMilli(),
		"verificationUrl": grant.VerificationURL,
	})
}

func (s *Server) handleVerifyDeviceCode(ctx *gin.Context) {
	var req verifyDeviceCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := ctx.GetString(ctxUserID)
	if err := s.devices.VerifyDeviceCode(ctx.Request.Context(), userID, req.Code); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"verified": true})
}

func (s *Server) handlePollDeviceCode(ctx *gin.Context) {
	var req pollDeviceCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.devices.PollDeviceCode(ctx.Request.Context(), req.DeviceCode, req.DeviceInfo)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !res.Verified {
		ctx.JSON(http.StatusOK, gin.H{"verified": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"verified":     true,
		"token":        res.Token,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UnixMilli(),
	})
}

func (s *Server) handleGetDeviceSession(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	view, err := s.devices.GetDeviceSession(ctx.Request.Context(), code)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"code":      view.Code,
		"expiresAt": view.ExpiresAt.UnixMilli(),
		"verified":  view.Verified,
	})
}
