package payment

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/services"
	"github.com/learnsphere/academy-api/utils/middleware"
	"github.com/learnsphere/academy-api/utils/response"
)

// PremiumPassPrice is the flat price for blanket catalog access.
const PremiumPassPrice = 1299

// PaymentHandler opens gateway orders and receives the success callback.
// Everything upstream of the callback (charging, 3DS, refunds) belongs to
// the external gateway.
type PaymentHandler struct {
	store        database.Storage
	entitlements *services.EntitlementService
	emails       *services.EmailService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(store database.Storage, entitlements *services.EntitlementService, emails *services.EmailService) *PaymentHandler {
	return &PaymentHandler{
		store:        store,
		entitlements: entitlements,
		emails:       emails,
	}
}

// CreateOrderRequest selects what is being bought.
type CreateOrderRequest struct {
	CourseID       string `json:"course_id,omitempty"`
	EnrollmentType string `json:"enrollment_type,omitempty" validate:"omitempty,oneof=course premium_pass"`
}

// CreateOrder records a pending order for the gateway checkout. Prices come
// from the catalog, never from the client.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment := &model.CoursePayment{
		UserID:         user.ID,
		OrderID:        fmt.Sprintf("order_%s", uuid.New().String()),
		Status:         model.PaymentStatusPending,
		EnrollmentType: model.EnrollmentTypeCourse,
	}

	if req.EnrollmentType == model.EnrollmentTypePremiumPass {
		payment.EnrollmentType = model.EnrollmentTypePremiumPass
		payment.CourseID = model.PremiumPassCourseID
		payment.CourseName = "Premium Pass"
		payment.Amount = PremiumPassPrice
	} else {
		if req.CourseID == "" {
			return response.BadRequest(c, "course_id is required")
		}
		course, err := h.store.GetCourseBySlug(req.CourseID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return response.NotFound(c, "Course not found")
			}
			return response.InternalServerError(c, "Failed to load course")
		}
		payment.CourseID = course.Slug
		payment.CourseName = course.Name
		payment.Amount = course.Price
	}

	if err := h.store.CreatePayment(payment); err != nil {
		return response.InternalServerError(c, "Failed to create order")
	}

	return response.Created(c, payment)
}

// PaymentSuccessRequest is the success callback from the gateway flow.
type PaymentSuccessRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
}

// PaymentSuccess completes a pending order and hands off to the entitlement
// engine. The success signal is trusted as-is; there is no gateway-side
// verification behind it.
func (h *PaymentHandler) PaymentSuccess(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req PaymentSuccessRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OrderID == "" || req.PaymentID == "" {
		return response.BadRequest(c, "order_id and payment_id are required")
	}

	payment, err := h.store.GetPaymentByOrderID(req.OrderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to load order")
	}
	if payment.UserID != user.ID {
		return response.Forbidden(c, "Order belongs to a different user")
	}

	completed, err := h.store.CompletePayment(req.OrderID, req.PaymentID, c.Body())
	if err != nil {
		return response.InternalServerError(c, "Failed to complete payment")
	}

	enrollment, err := h.entitlements.Enroll(database.CreateEnrollmentParams{
		UserID:         user.ID,
		CourseID:       completed.CourseID,
		CourseName:     completed.CourseName,
		PaymentID:      completed.PaymentID,
		EnrollmentType: completed.EnrollmentType,
		AmountPaid:     completed.Amount,
	})
	if err != nil {
		return response.InternalServerError(c, "Payment recorded but enrollment failed")
	}

	if err := h.emails.SendEnrollmentConfirmation(user.Email, user.FirstName, enrollment); err != nil {
		log.Printf("Failed to send enrollment confirmation to %s: %v", user.Email, err)
	}

	return response.SuccessWithMessage(c, "Payment completed and enrollment active", fiber.Map{
		"payment":    completed,
		"enrollment": enrollment,
	})
}
