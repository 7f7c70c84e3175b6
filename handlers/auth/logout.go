package auth

import (
	"github.com/gofiber/fiber/v2"

	authutil "github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/response"
)

// Logout revokes the current access token. The session is cleared
// unconditionally: even a revocation write failure leaves the client signed
// out, the token just stays valid until expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*authutil.Claims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	if claims.ExpiresAt != nil {
		if err := h.store.RevokeToken(claims.ID, claims.UserID, claims.ExpiresAt.Time, "logout"); err != nil {
			return response.SuccessWithMessage(c, "Signed out (token revocation pending expiry)", nil)
		}
	}

	return response.SuccessWithMessage(c, "Signed out successfully", nil)
}
