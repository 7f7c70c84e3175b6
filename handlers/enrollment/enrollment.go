package enrollment

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/services"
	"github.com/learnsphere/academy-api/utils/middleware"
	"github.com/learnsphere/academy-api/utils/response"
)

// EnrollmentHandler exposes the user's access grants and progress tracking.
type EnrollmentHandler struct {
	entitlements *services.EntitlementService
	certificates *services.CertificateService
	emails       *services.EmailService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(entitlements *services.EntitlementService, certificates *services.CertificateService, emails *services.EmailService) *EnrollmentHandler {
	return &EnrollmentHandler{
		entitlements: entitlements,
		certificates: certificates,
		emails:       emails,
	}
}

// ListEnrollments returns the caller's enrollments, newest first.
func (h *EnrollmentHandler) ListEnrollments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	enrollments, err := h.entitlements.ListEnrollments(user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load enrollments")
	}

	return response.Success(c, enrollments)
}

// CheckAccess reports whether the caller may consume a course, through either
// a direct enrollment or a premium pass.
func (h *EnrollmentHandler) CheckAccess(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID := c.Params("course_id")
	if courseID == "" {
		return response.BadRequest(c, "course_id is required")
	}

	hasAccess, enrollment, err := h.entitlements.HasAccess(user.ID, courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check access")
	}

	return response.Success(c, fiber.Map{
		"course_id":  courseID,
		"has_access": hasAccess,
		"enrollment": enrollment,
	})
}

// UpdateProgressRequest carries the new progress percentage.
type UpdateProgressRequest struct {
	Progress int `json:"progress"`
}

// UpdateProgress records progress on one of the caller's enrollments. When
// the write completes the enrollment, a certificate is minted in the same
// request and returned alongside the updated grant. Premium pass rows never
// produce certificates.
func (h *EnrollmentHandler) UpdateProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid enrollment id")
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	existing, err := h.entitlements.GetEnrollment(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Enrollment not found")
		}
		return response.InternalServerError(c, "Failed to load enrollment")
	}
	if existing.UserID != user.ID {
		return response.Forbidden(c, "Enrollment belongs to a different user")
	}

	update, err := h.entitlements.RecordProgress(uint(id), req.Progress)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Enrollment not found")
		}
		return response.InternalServerError(c, "Failed to update progress")
	}

	var cert *model.Certificate
	if update.JustCompleted && !update.Enrollment.IsPremiumPass() {
		cert, err = h.certificates.Generate(user.ID, user.FullName(), update.Enrollment.CourseName, update.Enrollment.CourseID)
		if err != nil {
			// Completion already persisted; surface the enrollment and let
			// the user re-request the certificate through support.
			log.Printf("Failed to issue certificate for enrollment %d: %v", id, err)
		} else if err := h.emails.SendCertificateIssued(user.Email, cert); err != nil {
			log.Printf("Failed to send certificate email to %s: %v", user.Email, err)
		}
	}

	return response.Success(c, fiber.Map{
		"enrollment":     update.Enrollment,
		"just_completed": update.JustCompleted,
		"certificate":    cert,
	})
}
