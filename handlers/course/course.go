package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/utils/response"
)

// CourseHandler serves the public course catalog
type CourseHandler struct {
	store database.Storage
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(store database.Storage) *CourseHandler {
	return &CourseHandler{store: store}
}

// ListCourses returns the full catalog.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.store.ListCourses()
	if err != nil {
		return response.InternalServerError(c, "Failed to load courses")
	}
	return response.Success(c, courses)
}

// GetCourse returns one catalog entry by slug.
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.BadRequest(c, "Course slug is required")
	}

	course, err := h.store.GetCourseBySlug(slug)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}
	return response.Success(c, course)
}
