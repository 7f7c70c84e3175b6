package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	store      database.Storage
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, store database.Storage) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		store:      store,
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		if claims.TokenType != "access" {
			return response.Unauthorized(c, "Invalid token type")
		}

		isRevoked, err := m.store.IsTokenRevoked(claims.ID)
		if err != nil {
			return response.InternalServerError(c, "Failed to check token status")
		}
		if isRevoked {
			return response.Unauthorized(c, "Token has been revoked")
		}

		user, err := m.store.GetUserByID(claims.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		if user.TokenVersion != claims.TokenVersion {
			return response.Unauthorized(c, "Token has been invalidated")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("claims", claims)
		c.Locals("user", user)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Required.
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok
}
