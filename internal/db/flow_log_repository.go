package db

import (
	"time"

	"github.com/lunara-health/lunara/internal/models"
	"gorm.io/gorm"
)

type FlowLogRepository struct {
	database *gorm.DB
}

func NewFlowLogRepository(database *gorm.DB) *FlowLogRepository {
	return &FlowLogRepository{database: database}
}

func (repo *FlowLogRepository) ListByCycle(cycleID uint) ([]models.FlowLog, error) {
	logs := make([]models.FlowLog, 0)
	if err := repo.database.
		Where("cycle_id = ?", cycleID).
		Order("date ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *FlowLogRepository) ListByUser(userID uint) ([]models.FlowLog, error) {
	logs := make([]models.FlowLog, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *FlowLogRepository) ExistsByCycleAndDate(cycleID uint, date time.Time) (bool, error) {
	var count int64
	err := repo.database.Model(&models.FlowLog{}).
		Where("cycle_id = ? AND date = ?", cycleID, date).
		Count(&count).Error
	return count > 0, err
}

func (repo *FlowLogRepository) Create(entry *models.FlowLog) error {
	return repo.database.Create(entry).Error
}
