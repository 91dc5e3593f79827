package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/backend/internal/domain/integration"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// respondSuccess writes a 200 envelope
func respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// respondError writes an error envelope with the status mapped from code
func respondError(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// respondBindingError reports a malformed or invalid request body
func respondBindingError(c *gin.Context, err error) {
	respondError(c, dto.ErrCodeInvalidJSON, err.Error())
}

// respondUpstreamError maps commerce backend and session failures onto
// API error codes.
func respondUpstreamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, integration.ErrQuantityCeilingExceeded):
		respondError(c, dto.ErrCodeQuantityCeiling, err.Error())
	case errors.Is(err, integration.ErrCartConcurrentlyModified):
		respondError(c, dto.ErrCodeConcurrencyConflict, err.Error())
	case errors.Is(err, integration.ErrNotAuthenticated):
		respondError(c, dto.ErrCodeUnauthorized, err.Error())
	case errors.Is(err, integration.ErrPlatformUnavailable):
		respondError(c, dto.ErrCodeUpstreamUnavailable, err.Error())
	case errors.Is(err, auth.ErrExpiredToken):
		respondError(c, dto.ErrCodeTokenExpired, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		respondError(c, dto.ErrCodeTokenInvalid, err.Error())
	default:
		respondError(c, dto.ErrCodeInternal, err.Error())
	}
}
