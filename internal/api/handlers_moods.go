package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunara-health/lunara/internal/models"
	"github.com/lunara-health/lunara/internal/services"
)

type logMoodPayload struct {
	Mood        string `json:"mood"`
	EnergyLevel int    `json:"energy_level"`
	Notes       string `json:"notes"`
}

func (handler *Handler) LogMood(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := logMoodPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := handler.moods.LogMood(user.ID, payload.Mood, payload.EnergyLevel, payload.Notes, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMood):
			return apiError(c, fiber.StatusBadRequest, "mood is required")
		case errors.Is(err, services.ErrInvalidEnergyLevel):
			return apiError(c, fiber.StatusBadRequest, "energy_level must be between 1 and 10")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to log mood")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"entry_id":     entry.ID,
		"cycle_phase":  entry.CyclePhase,
		"emotion_tags": entry.EmotionTags,
		"symptom_tags": entry.SymptomTags,
	})
}

func (handler *Handler) GetMoods(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		day, err := handler.parseDay(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid from date, use YYYY-MM-DD")
		}
		from = &day
	}
	if raw := c.Query("to"); raw != "" {
		day, err := handler.parseDay(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid to date, use YYYY-MM-DD")
		}
		to = &day
	}

	entries, err := handler.moods.History(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load mood history")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) GetMoodsByPhase(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	phase := c.Params("phase")
	if !models.KnownPhase(phase) {
		return apiError(c, fiber.StatusBadRequest, "unknown cycle phase")
	}

	entries, err := handler.moods.ByPhase(user.ID, phase)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load mood history")
	}
	return c.JSON(fiber.Map{"entries": entries})
}
