package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/utils/response"
)

// CheckHealth reports whether the selected storage backend is reachable.
func CheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Storage backend is unreachable")
		}
		return response.Success(c, fiber.Map{"status": "ok"})
	}
}
