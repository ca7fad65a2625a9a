package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lunara-health/lunara/internal/ml"
	"github.com/lunara-health/lunara/internal/models"
	"github.com/lunara-health/lunara/internal/nlp"
)

var (
	ErrEmptyMood          = errors.New("mood must not be empty")
	ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 10")
)

type MoodEntryRepository interface {
	Create(entry *models.MoodEntry) error
	ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.MoodEntry, error)
	ListByUserAndPhase(userID uint, phase string) ([]models.MoodEntry, error)
	ListAll() ([]models.MoodEntry, error)
}

type MoodCycleRepository interface {
	FindOpen(userID uint) (models.Cycle, bool, error)
	FindCovering(userID uint, date time.Time) (models.Cycle, bool, error)
}

type NoteAnalyzer interface {
	Analyze(text string) nlp.Result
}

type PhaseModelTrainer interface {
	Train(rows []ml.TrainingRow) (ml.TrainingReport, error)
}

// MoodService stores mood check-ins with the cycle phase frozen at
// write time and retrains the phase model after each write.
type MoodService struct {
	moods    MoodEntryRepository
	cycles   MoodCycleRepository
	analyzer NoteAnalyzer
	trainer  PhaseModelTrainer
}

func NewMoodService(moods MoodEntryRepository, cycles MoodCycleRepository, analyzer NoteAnalyzer, trainer PhaseModelTrainer) *MoodService {
	return &MoodService{moods: moods, cycles: cycles, analyzer: analyzer, trainer: trainer}
}

func (service *MoodService) LogMood(userID uint, mood string, energyLevel int, notes string, now time.Time) (models.MoodEntry, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return models.MoodEntry{}, ErrEmptyMood
	}
	if energyLevel < 1 || energyLevel > 10 {
		return models.MoodEntry{}, ErrInvalidEnergyLevel
	}

	phase := models.PhaseUnknown
	if openCycle, hasOpen, err := service.cycles.FindOpen(userID); err != nil {
		return models.MoodEntry{}, fmt.Errorf("find open cycle: %w", err)
	} else if hasOpen {
		phase = openCycle.CurrentPhase
	}

	entry := models.MoodEntry{
		UserID:      userID,
		Date:        now,
		Mood:        mood,
		EnergyLevel: energyLevel,
		Notes:       notes,
		CyclePhase:  phase,
	}

	if strings.TrimSpace(notes) != "" {
		analysis := service.analyzer.Analyze(notes)
		entry.EmotionTags = analysis.EmotionTags()
		entry.SymptomTags = analysis.SymptomTags()
	}

	if err := service.moods.Create(&entry); err != nil {
		return models.MoodEntry{}, fmt.Errorf("store mood entry: %w", err)
	}

	// Retraining rides on every mood write but its failure never fails
	// the write.
	if _, err := service.TrainPhaseModel(); err != nil && !errors.Is(err, ml.ErrNoTrainingData) {
		log.Printf("phase model retrain after mood log: %v", err)
	}

	return entry, nil
}

func (service *MoodService) History(userID uint, from *time.Time, to *time.Time) ([]models.MoodEntry, error) {
	return service.moods.ListByUserRange(userID, from, to)
}

func (service *MoodService) ByPhase(userID uint, phase string) ([]models.MoodEntry, error) {
	return service.moods.ListByUserAndPhase(userID, phase)
}

// TrainPhaseModel rebuilds the shared phase model from every stored
// mood entry whose date falls inside a known cycle.
func (service *MoodService) TrainPhaseModel() (ml.TrainingReport, error) {
	entries, err := service.moods.ListAll()
	if err != nil {
		return ml.TrainingReport{}, fmt.Errorf("list mood entries: %w", err)
	}

	rows := make([]ml.TrainingRow, 0, len(entries))
	for _, entry := range entries {
		cycle, covered, err := service.cycles.FindCovering(entry.UserID, entry.Date)
		if err != nil {
			return ml.TrainingReport{}, fmt.Errorf("resolve cycle for mood entry %d: %w", entry.ID, err)
		}
		if !covered {
			continue
		}
		rows = append(rows, ml.TrainingRow{
			CycleStart:  cycle.StartDate,
			Date:        entry.Date,
			Mood:        entry.Mood,
			EnergyLevel: entry.EnergyLevel,
			Phase:       cycle.CurrentPhase,
		})
	}

	return service.trainer.Train(rows)
}
