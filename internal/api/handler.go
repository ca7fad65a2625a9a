package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunara-health/lunara/internal/ml"
	"github.com/lunara-health/lunara/internal/models"
	"github.com/lunara-health/lunara/internal/nlp"
	"github.com/lunara-health/lunara/internal/services"
)

// CycleLister exposes the stored cycle history for read endpoints.
type CycleLister interface {
	ListByUser(userID uint) ([]models.Cycle, error)
}

const (
	defaultAuthTokenTTL = 24 * time.Hour
	contextUserKey      = "lunara_user"
)

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	auth        *services.AuthService
	engine      *services.CycleEngine
	status      *services.StatusService
	moods       *services.MoodService
	suggestions *services.SuggestionService
	analytics   *services.AnalyticsService
	cycles      CycleLister
	predictor   *ml.Predictor
	analyzer    *nlp.Analyzer
	secretKey   []byte
	location    *time.Location
}

type HandlerConfig struct {
	Auth        *services.AuthService
	Engine      *services.CycleEngine
	Status      *services.StatusService
	Moods       *services.MoodService
	Suggestions *services.SuggestionService
	Analytics   *services.AnalyticsService
	Cycles      CycleLister
	Predictor   *ml.Predictor
	Analyzer    *nlp.Analyzer
	SecretKey   string
	Location    *time.Location
}

func NewHandler(config HandlerConfig) *Handler {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		auth:        config.Auth,
		engine:      config.Engine,
		status:      config.Status,
		moods:       config.Moods,
		suggestions: config.Suggestions,
		analytics:   config.Analytics,
		cycles:      config.Cycles,
		predictor:   config.Predictor,
		analyzer:    config.Analyzer,
		secretKey:   []byte(config.SecretKey),
		location:    location,
	}
}
