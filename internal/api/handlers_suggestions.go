package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunara-health/lunara/internal/services"
)

func (handler *Handler) GetSuggestionsByPhase(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	suggestions, err := handler.suggestions.ByPhase(c.Params("phase"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownPhase) {
			return apiError(c, fiber.StatusBadRequest, "unknown cycle phase")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load suggestions")
	}
	return c.JSON(suggestions)
}

func (handler *Handler) GetCurrentSuggestions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	suggestions, err := handler.suggestions.ForUser(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load suggestions")
	}
	return c.JSON(suggestions)
}
