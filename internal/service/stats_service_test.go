package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

func TestGetUserStats(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	resultRepo := new(MockResultRepository)
	service := NewStatsService(userRepo, resultRepo)

	userRepo.On("GetByID", uint(1)).Return(&entity.User{
		ID:             1,
		TestsCompleted: 3,
		TotalScore:     240,
		AverageScore:   80,
	}, nil)
	resultRepo.On("GetRecentByUser", uint(1), RecentResultsLimit).Return([]repository.RecentResult{
		{QuizTitle: "Основы Go", Score: 90, CompletedAt: time.Now()},
	}, nil)

	// Act
	stats, err := service.GetUserStats(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TestsCompleted)
	assert.Equal(t, 80, stats.AverageScore)
	assert.Equal(t, 240, stats.TotalScore)
	require.Len(t, stats.Recent, 1)
	assert.Equal(t, "Основы Go", stats.Recent[0].QuizTitle)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	resultRepo := new(MockResultRepository)
	service := NewStatsService(userRepo, resultRepo)
	userRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	// Act
	_, err := service.GetUserStats(99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetLeaderboardOrdering(t *testing.T) {
	// Arrange — репозиторий уже возвращает отсортированный срез;
	// сервис передает его без изменений и с лимитом таблицы лидеров
	userRepo := new(MockUserRepository)
	resultRepo := new(MockResultRepository)
	service := NewStatsService(userRepo, resultRepo)

	ordered := []entity.User{
		{ID: 2, Email: "b@example.com", TestsCompleted: 10, AverageScore: 90, TotalScore: 900},
		{ID: 1, Email: "a@example.com", TestsCompleted: 5, AverageScore: 90, TotalScore: 450},
		{ID: 3, Email: "c@example.com", TestsCompleted: 0},
	}
	userRepo.On("GetLeaderboard", LeaderboardLimit).Return(ordered, nil)

	// Act
	leaders, err := service.GetLeaderboard()

	// Assert
	require.NoError(t, err)
	require.Len(t, leaders, 3)
	assert.Equal(t, uint(2), leaders[0].ID, "при равном среднем выше тот, у кого больше суммарный балл")
	assert.Equal(t, uint(3), leaders[2].ID, "пользователи без отправок в конце")
}
