package services

import (
	"errors"
	"testing"
	"time"

	"github.com/lunara-health/lunara/internal/ml"
	"github.com/lunara-health/lunara/internal/models"
	"github.com/lunara-health/lunara/internal/nlp"
)

type fakeMoodStore struct {
	entries []models.MoodEntry
	nextID  uint
}

func newFakeMoodStore() *fakeMoodStore {
	return &fakeMoodStore{nextID: 1}
}

func (store *fakeMoodStore) Create(entry *models.MoodEntry) error {
	entry.ID = store.nextID
	store.nextID++
	store.entries = append(store.entries, *entry)
	return nil
}

func (store *fakeMoodStore) ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.MoodEntry, error) {
	entries := make([]models.MoodEntry, 0)
	for _, entry := range store.entries {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.Date.Before(*from) {
			continue
		}
		if to != nil && entry.Date.After(*to) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (store *fakeMoodStore) ListByUserAndPhase(userID uint, phase string) ([]models.MoodEntry, error) {
	entries := make([]models.MoodEntry, 0)
	for _, entry := range store.entries {
		if entry.UserID == userID && entry.CyclePhase == phase {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (store *fakeMoodStore) ListAll() ([]models.MoodEntry, error) {
	return append([]models.MoodEntry(nil), store.entries...), nil
}

// fakeMoodCycles serves a single open cycle and covers any date from
// its start onward.
type fakeMoodCycles struct {
	open    models.Cycle
	hasOpen bool
}

func (store *fakeMoodCycles) FindOpen(uint) (models.Cycle, bool, error) {
	return store.open, store.hasOpen, nil
}

func (store *fakeMoodCycles) FindCovering(_ uint, date time.Time) (models.Cycle, bool, error) {
	if !store.hasOpen || date.Before(store.open.StartDate) {
		return models.Cycle{}, false, nil
	}
	return store.open, true, nil
}

type stubNoteAnalyzer struct {
	result nlp.Result
	calls  int
}

func (analyzer *stubNoteAnalyzer) Analyze(string) nlp.Result {
	analyzer.calls++
	return analyzer.result
}

type stubTrainer struct {
	err   error
	calls int
	rows  []ml.TrainingRow
}

func (trainer *stubTrainer) Train(rows []ml.TrainingRow) (ml.TrainingReport, error) {
	trainer.calls++
	trainer.rows = rows
	if trainer.err != nil {
		return ml.TrainingReport{}, trainer.err
	}
	return ml.TrainingReport{Samples: len(rows)}, nil
}

func TestLogMoodFreezesCurrentPhase(t *testing.T) {
	cycles := &fakeMoodCycles{
		open:    models.Cycle{ID: 1, UserID: 1, StartDate: day("2026-03-01"), CurrentPhase: models.PhaseLuteal},
		hasOpen: true,
	}
	service := NewMoodService(newFakeMoodStore(), cycles, &stubNoteAnalyzer{}, &stubTrainer{})

	entry, err := service.LogMood(1, "Anxious", 4, "", day("2026-03-20"))
	if err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	if entry.CyclePhase != models.PhaseLuteal {
		t.Fatalf("expected frozen phase Luteal, got %q", entry.CyclePhase)
	}
}

func TestLogMoodWithoutOpenCycleUsesUnknownPhase(t *testing.T) {
	service := NewMoodService(newFakeMoodStore(), &fakeMoodCycles{}, &stubNoteAnalyzer{}, &stubTrainer{})

	entry, err := service.LogMood(1, "Calm", 6, "", day("2026-03-20"))
	if err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	if entry.CyclePhase != models.PhaseUnknown {
		t.Fatalf("expected Unknown phase, got %q", entry.CyclePhase)
	}
}

func TestLogMoodValidation(t *testing.T) {
	service := NewMoodService(newFakeMoodStore(), &fakeMoodCycles{}, &stubNoteAnalyzer{}, &stubTrainer{})

	if _, err := service.LogMood(1, "  ", 5, "", day("2026-03-20")); !errors.Is(err, ErrEmptyMood) {
		t.Fatalf("expected ErrEmptyMood, got %v", err)
	}
	if _, err := service.LogMood(1, "Calm", 0, "", day("2026-03-20")); !errors.Is(err, ErrInvalidEnergyLevel) {
		t.Fatalf("expected ErrInvalidEnergyLevel for 0, got %v", err)
	}
	if _, err := service.LogMood(1, "Calm", 11, "", day("2026-03-20")); !errors.Is(err, ErrInvalidEnergyLevel) {
		t.Fatalf("expected ErrInvalidEnergyLevel for 11, got %v", err)
	}
}

func TestLogMoodStoresNoteTags(t *testing.T) {
	analyzer := &stubNoteAnalyzer{result: nlp.Result{
		Symptoms: map[string][]string{
			"emotional": {"fear", "exhaustion"},
			"pain":      {"cramp"},
		},
	}}
	service := NewMoodService(newFakeMoodStore(), &fakeMoodCycles{}, analyzer, &stubTrainer{})

	entry, err := service.LogMood(1, "Anxious", 4, "bad cramps, feeling anxious", day("2026-03-20"))
	if err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	if analyzer.calls != 1 {
		t.Fatalf("notes must be analyzed exactly once, got %d calls", analyzer.calls)
	}
	if len(entry.EmotionTags) != 2 || entry.EmotionTags[0] != "fear" {
		t.Fatalf("unexpected emotion tags %v", entry.EmotionTags)
	}
	if len(entry.SymptomTags) != 1 || entry.SymptomTags[0] != "cramp" {
		t.Fatalf("unexpected symptom tags %v", entry.SymptomTags)
	}
}

func TestLogMoodSkipsAnalysisForBlankNotes(t *testing.T) {
	analyzer := &stubNoteAnalyzer{}
	service := NewMoodService(newFakeMoodStore(), &fakeMoodCycles{}, analyzer, &stubTrainer{})

	if _, err := service.LogMood(1, "Calm", 6, "   ", day("2026-03-20")); err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	if analyzer.calls != 0 {
		t.Fatalf("blank notes must not be analyzed, got %d calls", analyzer.calls)
	}
}

func TestLogMoodSurvivesTrainerFailure(t *testing.T) {
	moods := newFakeMoodStore()
	trainer := &stubTrainer{err: errors.New("model directory unwritable")}
	service := NewMoodService(moods, &fakeMoodCycles{}, &stubNoteAnalyzer{}, trainer)

	if _, err := service.LogMood(1, "Calm", 6, "", day("2026-03-20")); err != nil {
		t.Fatalf("LogMood must not fail on retrain errors, got %v", err)
	}
	if trainer.calls != 1 {
		t.Fatalf("expected one retrain attempt, got %d", trainer.calls)
	}
	if len(moods.entries) != 1 {
		t.Fatalf("mood entry must be stored despite retrain failure")
	}
}

func TestTrainPhaseModelSkipsUncoveredEntries(t *testing.T) {
	moods := newFakeMoodStore()
	cycles := &fakeMoodCycles{
		open:    models.Cycle{ID: 1, UserID: 1, StartDate: day("2026-03-01"), CurrentPhase: models.PhaseFollicular},
		hasOpen: true,
	}
	trainer := &stubTrainer{}
	service := NewMoodService(moods, cycles, &stubNoteAnalyzer{}, trainer)

	covered := models.MoodEntry{UserID: 1, Date: day("2026-03-10"), Mood: "Calm", EnergyLevel: 6, CyclePhase: models.PhaseFollicular}
	uncovered := models.MoodEntry{UserID: 1, Date: day("2026-02-10"), Mood: "Sad", EnergyLevel: 3, CyclePhase: models.PhaseUnknown}
	if err := moods.Create(&covered); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := moods.Create(&uncovered); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	if _, err := service.TrainPhaseModel(); err != nil {
		t.Fatalf("TrainPhaseModel failed: %v", err)
	}
	if len(trainer.rows) != 1 {
		t.Fatalf("expected 1 training row, got %d", len(trainer.rows))
	}
	row := trainer.rows[0]
	if row.Mood != "Calm" || row.Phase != models.PhaseFollicular {
		t.Fatalf("unexpected training row %+v", row)
	}
	if !row.CycleStart.Equal(day("2026-03-01")) {
		t.Fatalf("training row must carry the covering cycle start, got %v", row.CycleStart)
	}
}
