package dto

import (
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// RegisterRequest — запрос на регистрацию
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest — запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse — публичное представление пользователя
type UserResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	TestsCompleted int    `json:"tests_completed"`
	AverageScore   int    `json:"average_score"`
	TotalScore     int    `json:"total_score"`
}

// NewUserResponse создает UserResponse из entity.User
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role,
		TestsCompleted: user.TestsCompleted,
		AverageScore:   user.AverageScore,
		TotalScore:     user.TotalScore,
	}
}

// AuthResponse — ответ на регистрацию или вход
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// StatsBlock — накопленная статистика пользователя
type StatsBlock struct {
	TestsCompleted int `json:"testsCompleted"`
	AverageScore   int `json:"averageScore"`
	TotalScore     int `json:"totalScore"`
}

// RecentResultResponse — одна недавняя отправка в личной статистике
type RecentResultResponse struct {
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// UserStatsResponse — ответ на запрос личной статистики
type UserStatsResponse struct {
	Stats         StatsBlock             `json:"stats"`
	RecentResults []RecentResultResponse `json:"recentResults"`
}

// NewUserStatsResponse создает UserStatsResponse из сервисной статистики
func NewUserStatsResponse(stats *service.UserStats) UserStatsResponse {
	recent := make([]RecentResultResponse, 0, len(stats.Recent))
	for _, r := range stats.Recent {
		recent = append(recent, RecentResultResponse{
			QuizTitle:   r.QuizTitle,
			Score:       r.Score,
			CompletedAt: r.CompletedAt,
		})
	}
	return UserStatsResponse{
		Stats: StatsBlock{
			TestsCompleted: stats.TestsCompleted,
			AverageScore:   stats.AverageScore,
			TotalScore:     stats.TotalScore,
		},
		RecentResults: recent,
	}
}

// LeaderboardEntry — строка таблицы лидеров
type LeaderboardEntry struct {
	Name           string `json:"name"`
	TestsCompleted int    `json:"testsCompleted"`
	AverageScore   int    `json:"averageScore"`
	TotalScore     int    `json:"totalScore"`
}

// NewLeaderboardResponse создает таблицу лидеров из списка пользователей
func NewLeaderboardResponse(users []entity.User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, LeaderboardEntry{
			Name:           users[i].DisplayName(),
			TestsCompleted: users[i].TestsCompleted,
			AverageScore:   users[i].AverageScore,
			TotalScore:     users[i].TotalScore,
		})
	}
	return entries
}

// CategoryStatResponse — агрегат по одной категории
type CategoryStatResponse struct {
	Count        int `json:"count"`
	AverageScore int `json:"averageScore"`
}

// OverviewResponse — сводная статистика платформы
type OverviewResponse struct {
	TotalTests    int                             `json:"totalTests"`
	TotalUsers    int                             `json:"totalUsers"`
	AverageScore  int                             `json:"averageScore"`
	CategoryStats map[string]CategoryStatResponse `json:"categoryStats"`
}

// NewOverviewResponse создает OverviewResponse из агрегатов хранилища
func NewOverviewResponse(overview *repository.OverviewStats) OverviewResponse {
	categories := make(map[string]CategoryStatResponse, len(overview.Categories))
	for _, c := range overview.Categories {
		categories[c.Category] = CategoryStatResponse{
			Count:        c.Count,
			AverageScore: c.AverageScore,
		}
	}
	return OverviewResponse{
		TotalTests:    overview.TotalTests,
		TotalUsers:    overview.TotalUsers,
		AverageScore:  overview.AverageScore,
		CategoryStats: categories,
	}
}

// ProgressResponse — игровой прогресс пользователя
type ProgressResponse struct {
	XP           int      `json:"xp"`
	Level        int      `json:"level"`
	StreakDays   int      `json:"streakDays"`
	Achievements []string `json:"achievements"`
}
