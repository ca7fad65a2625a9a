package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunara-health/lunara/internal/services"
)

type recordFlowPayload struct {
	Date     string   `json:"date"`
	Flow     string   `json:"flow_level"`
	Symptoms []string `json:"symptoms"`
}

func (handler *Handler) RecordPeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := recordFlowPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Date == "" || payload.Flow == "" {
		return apiError(c, fiber.StatusBadRequest, "date and flow_level are required")
	}

	day, err := handler.parseDay(payload.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	}

	record, err := handler.engine.RecordFlow(user.ID, day, payload.Flow, payload.Symptoms)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownFlow):
			return apiError(c, fiber.StatusBadRequest, "invalid flow level")
		case errors.Is(err, services.ErrEmptySymptom):
			return apiError(c, fiber.StatusBadRequest, "symptoms cannot be empty")
		case errors.Is(err, services.ErrBackdatedLog):
			return apiError(c, fiber.StatusBadRequest, "date must not precede the latest logged flow")
		case errors.Is(err, services.ErrDuplicateLog):
			return apiError(c, fiber.StatusBadRequest, "flow already logged for this date")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to record flow")
	}

	status := handler.status.Current(user.ID, time.Now().In(handler.location))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cycle_id":               record.CycleID,
		"assigned_phase":         record.AssignedPhase,
		"is_new_cycle":           record.IsNewCycle,
		"cycle_day":              status.CycleDay,
		"cycle_phase":            status.Phase,
		"days_until_next_period": status.DaysUntilNextPeriod,
	})
}

func (handler *Handler) GetCurrentCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	status := handler.status.Current(user.ID, time.Now().In(handler.location))
	return c.JSON(status)
}

func (handler *Handler) GetCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycles, err := handler.cycles.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(fiber.Map{"cycles": cycles})
}
