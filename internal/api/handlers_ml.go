package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunara-health/lunara/internal/ml"
)

type analyzeTextPayload struct {
	Text string `json:"text"`
}

func (handler *Handler) TrainModel(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	report, err := handler.moods.TrainPhaseModel()
	if err != nil {
		if errors.Is(err, ml.ErrNoTrainingData) {
			return apiError(c, fiber.StatusBadRequest, "no mood entries to train on")
		}
		return apiError(c, fiber.StatusInternalServerError, "training failed")
	}
	return c.JSON(report)
}

func (handler *Handler) PredictMood(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	status := handler.status.Current(user.ID, time.Now().In(handler.location))
	prediction := handler.predictor.Predict(status.Phase)

	return c.JSON(fiber.Map{
		"cycle_phase": status.Phase,
		"prediction":  prediction,
	})
}

func (handler *Handler) AnalyzeText(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := analyzeTextPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Text == "" {
		return apiError(c, fiber.StatusBadRequest, "text is required")
	}

	return c.JSON(handler.analyzer.Analyze(payload.Text))
}
