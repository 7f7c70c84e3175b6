package auth

import (
	"github.com/gofiber/fiber/v2"

	authutil "github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/response"
)

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries a fresh access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		if err == authutil.ErrExpiredToken {
			return response.Unauthorized(c, "Refresh token has expired")
		}
		return response.Unauthorized(c, "Invalid refresh token")
	}
	if claims.TokenType != "refresh" {
		return response.Unauthorized(c, "Invalid token type")
	}

	revoked, err := h.store.IsTokenRevoked(claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if revoked {
		return response.Unauthorized(c, "Refresh token has been revoked")
	}

	tokenVersion, err := h.store.GetUserTokenVersion(claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "User not found")
	}
	if tokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(claims.UserID, claims.Email, tokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	return response.Success(c, RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   24 * 60 * 60,
	})
}
