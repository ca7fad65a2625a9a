package db

import (
	"time"

	"github.com/lunara-health/lunara/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

// FindOpen returns the newest cycle with no end date. Ordering by start
// date descending means a stray second open cycle left by a crash is
// shadowed by the newer one instead of corrupting reads.
func (repo *CycleRepository) FindOpen(userID uint) (models.Cycle, bool, error) {
	cycle := models.Cycle{}
	result := repo.database.
		Where("user_id = ? AND end_date IS NULL", userID).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Cycle{}, false, nil
	}
	return cycle, true, nil
}

func (repo *CycleRepository) ListClosed(userID uint, limit int) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	query := repo.database.
		Where("user_id = ? AND end_date IS NOT NULL", userID).
		Order("start_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) ListByUser(userID uint) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// FindCovering returns the cycle whose date range contains the given
// date, preferring a closed cycle over the open one.
func (repo *CycleRepository) FindCovering(userID uint, date time.Time) (models.Cycle, bool, error) {
	cycle := models.Cycle{}
	result := repo.database.
		Where("user_id = ? AND start_date <= ? AND end_date > ?", userID, date, date).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	if result.RowsAffected > 0 {
		return cycle, true, nil
	}

	result = repo.database.
		Where("user_id = ? AND start_date <= ? AND end_date IS NULL", userID, date).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Cycle{}, false, nil
	}
	return cycle, true, nil
}

func (repo *CycleRepository) Create(cycle *models.Cycle) error {
	return repo.database.Create(cycle).Error
}

// Close sets the end date once; a cycle already closed is left alone.
func (repo *CycleRepository) Close(cycleID uint, endDate time.Time) error {
	return repo.database.Model(&models.Cycle{}).
		Where("id = ? AND end_date IS NULL", cycleID).
		Updates(map[string]any{"end_date": endDate, "updated_at": time.Now()}).Error
}

func (repo *CycleRepository) UpdatePhase(cycleID uint, phase string) error {
	return repo.database.Model(&models.Cycle{}).
		Where("id = ?", cycleID).
		Updates(map[string]any{"current_phase": phase, "updated_at": time.Now()}).Error
}
