package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunara-health/lunara/internal/models"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func currentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(contextUserKey).(models.User)
	return user, ok
}

// parseDay parses a YYYY-MM-DD value in the handler's location.
func (handler *Handler) parseDay(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, handler.location)
}
