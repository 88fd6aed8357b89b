package service

import (
	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
)

// LeaderboardLimit — размер таблицы лидеров
const LeaderboardLimit = 50

// RecentResultsLimit — число недавних отправок в личной статистике
const RecentResultsLimit = 5

// UserStats — личная статистика пользователя с недавними отправками
type UserStats struct {
	TestsCompleted int
	AverageScore   int
	TotalScore     int
	Recent         []repository.RecentResult
}

// StatsService агрегирует статистику пользователей и платформы
type StatsService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
}

// NewStatsService создает новый сервис статистики
func NewStatsService(userRepo repository.UserRepository, resultRepo repository.ResultRepository) *StatsService {
	return &StatsService{
		userRepo:   userRepo,
		resultRepo: resultRepo,
	}
}

// GetUserStats возвращает накопленную статистику пользователя
// и его последние отправки
func (s *StatsService) GetUserStats(userID uint) (*UserStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.resultRepo.GetRecentByUser(userID, RecentResultsLimit)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TestsCompleted: user.TestsCompleted,
		AverageScore:   user.AverageScore,
		TotalScore:     user.TotalScore,
		Recent:         recent,
	}, nil
}

// GetLeaderboard возвращает пользователей в порядке таблицы лидеров
func (s *StatsService) GetLeaderboard() ([]entity.User, error) {
	return s.userRepo.GetLeaderboard(LeaderboardLimit)
}

// GetOverview возвращает сводную статистику платформы
func (s *StatsService) GetOverview() (*repository.OverviewStats, error) {
	return s.resultRepo.GetOverview()
}

// AllResults возвращает все результаты для экспорта, новые первыми
func (s *StatsService) AllResults() ([]entity.TestResult, error) {
	return s.resultRepo.ListAll()
}
