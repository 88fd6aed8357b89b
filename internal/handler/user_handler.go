package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/testing-platform-api/internal/gamification"
	"github.com/yourusername/testing-platform-api/internal/handler/dto"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// UserHandler обрабатывает профили, личную статистику и таблицу лидеров
type UserHandler struct {
	authService  *service.AuthService
	statsService *service.StatsService
	tracker      *gamification.Tracker
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(authService *service.AuthService, statsService *service.StatsService, tracker *gamification.Tracker) *UserHandler {
	return &UserHandler{
		authService:  authService,
		statsService: statsService,
		tracker:      tracker,
	}
}

// requireSelf проверяет, что вызывающий запрашивает собственные данные
func requireSelf(c *gin.Context) (uint, bool) {
	targetID := c.MustGet("userID").(uint)
	callerID := c.MustGet("user_id").(uint)
	if targetID != callerID {
		respondError(c, apperrors.ErrForbidden)
		return 0, false
	}
	return targetID, true
}

// GetUser обрабатывает GET /api/users/:id (только свои данные)
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := requireSelf(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetUserStats обрабатывает GET /api/users/:id/stats (только свои данные)
func (h *UserHandler) GetUserStats(c *gin.Context) {
	userID, ok := requireSelf(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetUserStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserStatsResponse(stats))
}

// GetUserProgress обрабатывает GET /api/users/:id/progress (только свои данные)
func (h *UserHandler) GetUserProgress(c *gin.Context) {
	userID, ok := requireSelf(c)
	if !ok {
		return
	}

	progress, _ := h.tracker.Progress(userID)
	if progress.Achievements == nil {
		progress.Achievements = []string{}
	}
	c.JSON(http.StatusOK, dto.ProgressResponse{
		XP:           progress.XP,
		Level:        progress.Level,
		StreakDays:   progress.StreakDays,
		Achievements: progress.Achievements,
	})
}

// GetLeaderboard обрабатывает GET /api/leaderboard
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	users, err := h.statsService.GetLeaderboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLeaderboardResponse(users))
}
