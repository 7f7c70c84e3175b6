package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()

	user, err := h.store.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, ip, req.Email)
			}
			return response.Unauthorized(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to sign in")
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	res, err := h.issueTokens(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Success(c, res)
}
