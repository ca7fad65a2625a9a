package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lunara-health/lunara/internal/api"
	"github.com/lunara-health/lunara/internal/db"
	"github.com/lunara-health/lunara/internal/ml"
	"github.com/lunara-health/lunara/internal/nlp"
	"github.com/lunara-health/lunara/internal/services"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("DB_PATH", filepath.Join("data", "lunara.db"))
	port := getEnv("PORT", "8080")
	modelDir := getEnv("MODEL_DIR", "data")
	emotionModelPath := getEnv("EMOTION_MODEL_PATH", "")
	emotionLabelsPath := getEnv("EMOTION_LABELS_PATH", "")

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repositories := db.NewRepositories(database)

	emotions := loadEmotionSource(emotionModelPath, emotionLabelsPath)
	analyzer := nlp.NewAnalyzer(emotions)
	predictor := ml.NewPredictor(modelDir)

	authService := services.NewAuthService(repositories.Users)
	engine := services.NewCycleEngine(repositories.Cycles, repositories.FlowLogs)
	status := services.NewStatusService(repositories.Cycles, repositories.FlowLogs)
	moods := services.NewMoodService(repositories.Moods, repositories.Cycles, analyzer, predictor)
	suggestions := services.NewSuggestionService(repositories.Suggestions, status)
	analytics := services.NewAnalyticsService(repositories.Moods, repositories.FlowLogs)

	handler := api.NewHandler(api.HandlerConfig{
		Auth:        authService,
		Engine:      engine,
		Status:      status,
		Moods:       moods,
		Suggestions: suggestions,
		Analytics:   analytics,
		Cycles:      repositories.Cycles,
		Predictor:   predictor,
		Analyzer:    analyzer,
		SecretKey:   secretKey,
		Location:    location,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Lunara",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Lunara listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// loadEmotionSource prefers the classifier model when both files are
// configured and loadable; otherwise text analysis runs on keyword
// matching alone for the life of the process.
func loadEmotionSource(modelPath string, labelsPath string) nlp.EmotionSource {
	if modelPath == "" || labelsPath == "" {
		log.Printf("emotion model not configured, using keyword analysis")
		return nlp.NewKeywordEmotionSource()
	}
	model, err := nlp.LoadEmotionModel(modelPath, labelsPath)
	if err != nil {
		log.Printf("emotion model load failed (%v), using keyword analysis", err)
		return nlp.NewKeywordEmotionSource()
	}
	log.Printf("emotion model loaded from %s", modelPath)
	return model
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
