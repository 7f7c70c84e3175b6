package contact

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/utils/response"
	"github.com/learnsphere/academy-api/utils/validation"
)

// ContactHandler accepts marketing-page contact form submissions.
type ContactHandler struct {
	store     database.Storage
	validator *validation.Validator
}

// NewContactHandler creates a new contact handler
func NewContactHandler(store database.Storage) *ContactHandler {
	return &ContactHandler{
		store:     store,
		validator: validation.NewValidator(),
	}
}

// SubmitRequest is the contact form payload. Phone is optional.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Message string `json:"message" validate:"required,min=5,max=2000"`
}

// Submit stores a contact message. Submissions are write-only through the
// public API; there is no read surface.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	msg := &model.ContactMessage{
		Name:    validation.SanitizeString(req.Name),
		Email:   req.Email,
		Phone:   validation.SanitizeString(req.Phone),
		Message: validation.SanitizeString(req.Message),
	}

	if err := h.store.CreateContactMessage(msg); err != nil {
		return response.InternalServerError(c, "Failed to submit message")
	}

	return response.Created(c, fiber.Map{"id": msg.ID})
}
