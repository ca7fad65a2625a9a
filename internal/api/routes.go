package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	api.Post("/periods", handler.AuthRequired, handler.RecordPeriod)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Get("", handler.GetCycles)
	cycles.Get("/current", handler.GetCurrentCycle)

	moods := api.Group("/moods", handler.AuthRequired)
	moods.Post("", handler.LogMood)
	moods.Get("", handler.GetMoods)
	moods.Get("/phase/:phase", handler.GetMoodsByPhase)

	suggestions := api.Group("/suggestions", handler.AuthRequired)
	suggestions.Get("", handler.GetCurrentSuggestions)
	suggestions.Get("/:phase", handler.GetSuggestionsByPhase)

	analytics := api.Group("/analytics", handler.AuthRequired)
	analytics.Get("/energy", handler.GetEnergyByPhase)
	analytics.Get("/symptoms", handler.GetSymptomFrequency)

	ml := api.Group("/ml", handler.AuthRequired)
	ml.Post("/train", handler.TrainModel)
	ml.Get("/predict", handler.PredictMood)
	ml.Post("/analyze", handler.AnalyzeText)
}
