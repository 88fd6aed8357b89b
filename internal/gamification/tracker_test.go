package gamification

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
)

func newTestTracker(t *testing.T) (*Tracker, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamification.json")
	tracker, err := NewTracker(path)
	require.NoError(t, err)
	return tracker, path
}

func submission(score int, completedAt time.Time) *entity.TestResult {
	return &entity.TestResult{QuizID: 1, Score: score, CompletedAt: completedAt}
}

func TestTrackerAccumulatesXPAndLevels(t *testing.T) {
	// Arrange
	tracker, _ := newTestTracker(t)
	user := &entity.User{ID: 1}
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Act — 90 + 80 + 100 = 270 XP, второй уровень с 250
	tracker.OnSubmission(user, submission(90, day))
	tracker.OnSubmission(user, submission(80, day))
	tracker.OnSubmission(user, submission(100, day))

	// Assert
	progress, ok := tracker.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 270, progress.XP)
	assert.Equal(t, 2, progress.Level)
	assert.Equal(t, 3, progress.TestsCounted)
}

func TestTrackerAchievements(t *testing.T) {
	// Arrange
	tracker, _ := newTestTracker(t)
	user := &entity.User{ID: 1}
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Act
	tracker.OnSubmission(user, submission(100, day))

	// Assert
	progress, _ := tracker.Progress(1)
	assert.Contains(t, progress.Achievements, AchievementFirstTest)
	assert.Contains(t, progress.Achievements, AchievementPerfectScore)
	assert.NotContains(t, progress.Achievements, AchievementTenTests)

	// Достижения не дублируются при повторном выполнении условия
	tracker.OnSubmission(user, submission(100, day))
	progress, _ = tracker.Progress(1)
	assert.Equal(t, 1, countOf(progress.Achievements, AchievementPerfectScore))
}

func countOf(items []string, target string) int {
	n := 0
	for _, item := range items {
		if item == target {
			n++
		}
	}
	return n
}

func TestTrackerStreak(t *testing.T) {
	// Arrange
	tracker, _ := newTestTracker(t)
	user := &entity.User{ID: 1}
	day1 := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	// Act — три дня подряд, с двумя отправками в первый день
	tracker.OnSubmission(user, submission(70, day1))
	tracker.OnSubmission(user, submission(75, day1))
	tracker.OnSubmission(user, submission(80, day1.AddDate(0, 0, 1)))
	tracker.OnSubmission(user, submission(85, day1.AddDate(0, 0, 2)))

	// Assert
	progress, _ := tracker.Progress(1)
	assert.Equal(t, 3, progress.StreakDays)
	assert.Contains(t, progress.Achievements, AchievementStreakThree)

	// Пропуск дня сбрасывает серию
	tracker.OnSubmission(user, submission(90, day1.AddDate(0, 0, 5)))
	progress, _ = tracker.Progress(1)
	assert.Equal(t, 1, progress.StreakDays)
}

func TestTrackerPersistsAcrossReload(t *testing.T) {
	// Arrange
	tracker, path := newTestTracker(t)
	user := &entity.User{ID: 7}
	tracker.OnSubmission(user, submission(60, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)))

	// Act — открываем трекер заново, как при перезапуске
	reopened, err := NewTracker(path)
	require.NoError(t, err)

	// Assert
	progress, ok := reopened.Progress(7)
	require.True(t, ok)
	assert.Equal(t, 60, progress.XP)
	assert.Equal(t, 1, progress.TestsCounted)
}

func TestTrackerUnknownUser(t *testing.T) {
	tracker, _ := newTestTracker(t)

	progress, ok := tracker.Progress(404)
	assert.False(t, ok)
	assert.Equal(t, 1, progress.Level, "нулевой прогресс начинается с первого уровня")
}
