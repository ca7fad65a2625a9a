package db

import (
	"github.com/lunara-health/lunara/internal/models"
	"gorm.io/gorm"
)

type SuggestionRepository struct {
	database *gorm.DB
}

func NewSuggestionRepository(database *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{database: database}
}

func (repo *SuggestionRepository) ListByPhase(phase string) ([]models.Suggestion, error) {
	suggestions := make([]models.Suggestion, 0)
	if err := repo.database.
		Where("phase = ?", phase).
		Order("category ASC, id ASC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (repo *SuggestionRepository) ListByPhaseAndCategory(phase string, category string) ([]models.Suggestion, error) {
	suggestions := make([]models.Suggestion, 0)
	if err := repo.database.
		Where("phase = ? AND category = ?", phase, category).
		Order("id ASC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}
