package services

import (
	"errors"
	"time"

	"github.com/lunara-health/lunara/internal/models"
)

var ErrUnknownPhase = errors.New("unknown cycle phase")

type SuggestionRepository interface {
	ListByPhase(phase string) ([]models.Suggestion, error)
	ListByPhaseAndCategory(phase string, category string) ([]models.Suggestion, error)
}

// PhaseSuggestions is the per-phase dietary and lifestyle content,
// split by category.
type PhaseSuggestions struct {
	Phase     string   `json:"phase"`
	Diet      []string `json:"diet"`
	Lifestyle []string `json:"lifestyle"`
}

type SuggestionService struct {
	suggestions SuggestionRepository
	status      *StatusService
}

func NewSuggestionService(suggestions SuggestionRepository, status *StatusService) *SuggestionService {
	return &SuggestionService{suggestions: suggestions, status: status}
}

func (service *SuggestionService) ByPhase(phase string) (PhaseSuggestions, error) {
	if !models.KnownPhase(phase) {
		return PhaseSuggestions{}, ErrUnknownPhase
	}

	rows, err := service.suggestions.ListByPhase(phase)
	if err != nil {
		return PhaseSuggestions{}, err
	}

	result := PhaseSuggestions{Phase: phase, Diet: make([]string, 0), Lifestyle: make([]string, 0)}
	for _, row := range rows {
		switch row.Category {
		case models.SuggestionDiet:
			result.Diet = append(result.Diet, row.Recommendation)
		case models.SuggestionLifestyle:
			result.Lifestyle = append(result.Lifestyle, row.Recommendation)
		}
	}
	return result, nil
}

// ForUser resolves the caller's current phase and returns its content.
func (service *SuggestionService) ForUser(userID uint, now time.Time) (PhaseSuggestions, error) {
	status := service.status.Current(userID, now)
	return service.ByPhase(status.Phase)
}
