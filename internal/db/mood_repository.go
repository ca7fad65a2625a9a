package db

import (
	"time"

	"github.com/lunara-health/lunara/internal/models"
	"gorm.io/gorm"
)

type MoodRepository struct {
	database *gorm.DB
}

func NewMoodRepository(database *gorm.DB) *MoodRepository {
	return &MoodRepository{database: database}
}

func (repo *MoodRepository) Create(entry *models.MoodEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *MoodRepository) ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.MoodEntry, error) {
	query := repo.database.Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	entries := make([]models.MoodEntry, 0)
	if err := query.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *MoodRepository) ListByUserAndPhase(userID uint, phase string) ([]models.MoodEntry, error) {
	entries := make([]models.MoodEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND cycle_phase = ?", userID, phase).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAll feeds phase-model training; the trained snapshot is shared
// across users, as in the shipped predictor.
func (repo *MoodRepository) ListAll() ([]models.MoodEntry, error) {
	entries := make([]models.MoodEntry, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *MoodRepository) AverageEnergyByPhase(userID uint, since time.Time) (map[string]float64, error) {
	type phaseEnergy struct {
		CyclePhase    string
		AverageEnergy float64
	}

	rows := make([]phaseEnergy, 0)
	if err := repo.database.Model(&models.MoodEntry{}).
		Select("cycle_phase, AVG(energy_level) AS average_energy").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("cycle_phase").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	averages := make(map[string]float64, len(rows))
	for _, row := range rows {
		averages[row.CyclePhase] = row.AverageEnergy
	}
	return averages, nil
}
