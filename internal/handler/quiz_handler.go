package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/testing-platform-api/internal/handler/dto"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// QuizHandler обрабатывает каталог тестов и прямые отправки
type QuizHandler struct {
	quizService    *service.QuizService
	scoringService *service.ScoringService
}

// NewQuizHandler создает новый обработчик тестов
func NewQuizHandler(quizService *service.QuizService, scoringService *service.ScoringService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		scoringService: scoringService,
	}
}

// List обрабатывает GET /api/quizzes — каталог без тел вопросов
func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.quizService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizListResponse(quizzes))
}

// Get обрабатывает GET /api/quizzes/:id — тест целиком, с вопросами
func (h *QuizHandler) Get(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetByID(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// Submit обрабатывает POST /api/quizzes/:id/submit — прямую отправку
// ответов без серверной сессии
func (h *QuizHandler) Submit(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	summary, err := h.scoringService.SubmitAttempt(userID, quizID, req.Answers, req.TimeSpent)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmitResponse(summary))
}
