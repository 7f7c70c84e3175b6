package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/utils/middleware"
	"github.com/learnsphere/academy-api/utils/response"
)

// UpdateProfileRequest carries the mutable profile fields. Omitted fields
// are left unchanged.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Success(c, toUserResponse(user))
}

// UpdateProfile updates the authenticated user's mutable fields. Email and
// id are immutable.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FirstName != nil && *req.FirstName == "" {
		return response.BadRequest(c, "First name cannot be empty")
	}

	updated, err := h.store.UpdateUserProfile(user.ID, database.ProfileUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, toUserResponse(updated))
}
