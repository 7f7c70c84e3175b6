package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	authutil "github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/response"
	"github.com/learnsphere/academy-api/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required,min=1"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate before any persistence call
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		return response.BadRequest(c, "Email, password, and first name are required")
	}
	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email format")
	}
	if req.Password == model.GoogleAuthSentinel {
		// the sentinel is reserved for the OAuth linking flow
		return response.BadRequest(c, "Invalid password")
	}
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	user, err := h.store.SignUp(database.SignUpInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return response.Conflict(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	res, err := h.issueTokens(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Created(c, res)
}
