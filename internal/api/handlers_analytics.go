package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultEnergyWindowDays = 90

func (handler *Handler) GetEnergyByPhase(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays := defaultEnergyWindowDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apiError(c, fiber.StatusBadRequest, "days must be a positive integer")
		}
		windowDays = parsed
	}

	since := time.Now().In(handler.location).AddDate(0, 0, -windowDays)
	levels, err := handler.analytics.EnergyByPhase(user.ID, since)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute energy levels")
	}
	return c.JSON(fiber.Map{"energy_by_phase": levels, "window_days": windowDays})
}

func (handler *Handler) GetSymptomFrequency(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	frequency, err := handler.analytics.SymptomFrequency(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute symptom frequency")
	}
	return c.JSON(fiber.Map{"symptom_frequency": frequency})
}
