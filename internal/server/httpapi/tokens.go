package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commis-dev/commis/internal/server/models"
)

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type revokeTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) handleRefreshToken(ctx *gin.Context) {
	var req refreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := s.tokens.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
		"expiresAt":    pair.ExpiresAt.UnixMilli(),
	})
}

func (s *Server) handleRevokeToken(ctx *gin.Context) {
	var req revokeTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tokens.Revoke(ctx.Request.Context(), req.Token); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"revoked": true})
}

func (s *Server) handleMe(ctx *gin.Context) {
	user, err := s.users.GetUser(ctx.Request.Context(), ctx.GetString(ctxUserID))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
	})
}

func tokenJSON(t *models.APIToken) gin.H {
	out := gin.H{
		"id":             t.ID,
		"expiresAt":      t.ExpiresAt.UnixMilli(),
		"deviceId":       t.DeviceID,
		"deviceName":     t.DeviceName,
		"deviceHostname": t.DeviceHostname,
		"devicePlatform": t.DevicePlatform,
		"createdAt":      t.CreatedAt.UnixMilli(),
	}
	if t.LastUsedAt != nil {
		out["lastUsedAt"] = t.LastUsedAt.UnixMilli()
	}
	return out
}

func (s *Server) handleListTokens(ctx *gin.Context) {
	records, err := s.tokens.ListByUser(ctx.Request.Context(), ctx.GetString(ctxUserID))
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := make([]gin.H, 0, len(records))
	for _, r := range records {
		item := tokenJSON(r)
		item["current"] = r.ID == ctx.GetString(ctxTokenID)
		out = append(out, item)
	}
	ctx.JSON(http.StatusOK, gin.H{"tokens": out})
}

func (s *Server) handleDeleteToken(ctx *gin.Context) {
	if err := s.tokens.DeleteToken(ctx.Request.Context(), ctx.GetString(ctxUserID), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

// handleListDevices derives the device registry from the caller's credential
// rows: one entry per distinct fingerprint, carrying the most recent usage.
func (s *Server) handleListDevices(ctx *gin.Context) {
	records, err := s.tokens.ListByUser(ctx.Request.Context(), ctx.GetString(ctxUserID))
	if err != nil {
		writeError(ctx, err)
		return
	}

	seen := make(map[string]gin.H)
	order := make([]string, 0, len(records))
	for _, r := range records {
		if r.DeviceID == "" {
			continue
		}
		entry, ok := seen[r.DeviceID]
		if !ok {
			entry = gin.H{
				"deviceId":   r.DeviceID,
				"deviceName": r.DeviceName,
				"hostname":   r.DeviceHostname,
				"platform":   r.DevicePlatform,
			}
			seen[r.DeviceID] = entry
			order = append(order, r.DeviceID)
		}
		if r.LastUsedAt != nil {
			last := r.LastUsedAt.UnixMilli()
			if prev, ok := entry["lastUsedAt"].(int64); !ok || last > prev {
				entry["lastUsedAt"] = last
			}
		}
	}

	out := make([]gin.H, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	ctx.JSON(http.StatusOK, gin.H{"devices": out})
}
