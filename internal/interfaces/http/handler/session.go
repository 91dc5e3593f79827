package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// SessionHandler binds and releases the shopper session. Presenting a
// token here is what triggers the cart sync coordinator's merge.
type SessionHandler struct {
	provider *auth.Provider
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler
func NewSessionHandler(provider *auth.Provider, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		provider: provider,
		logger:   logger.Named("session_handler"),
	}
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	{
		session.GET("", h.GetSession)
		session.POST("", h.CreateSession)
		session.DELETE("", h.DeleteSession)
	}
}

// GetSession describes the signed-in shopper, if any
func (h *SessionHandler) GetSession(c *gin.Context) {
	principal := h.provider.Current()
	if principal == nil {
		respondSuccess(c, gin.H{"signed_in": false})
		return
	}
	respondSuccess(c, gin.H{
		"signed_in": true,
		"session": dto.SessionResponse{
			UserID:   principal.UserID,
			Username: principal.Username,
		},
	})
}

// CreateSession verifies a session token and signs the shopper in.
// The response is written after the guest cart merge completes.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	principal, err := h.provider.SetToken(req.Token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondSuccess(c, dto.SessionResponse{
		UserID:   principal.UserID,
		Username: principal.Username,
	})
}

// DeleteSession signs the shopper out
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.provider.Clear()
	respondSuccess(c, gin.H{"signed_in": false})
}
