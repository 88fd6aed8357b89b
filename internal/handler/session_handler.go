package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/testing-platform-api/internal/handler/dto"
	"github.com/yourusername/testing-platform-api/internal/service"
	"github.com/yourusername/testing-platform-api/internal/session"
)

// SessionHandler обрабатывает серверные сессии прохождения тестов
type SessionHandler struct {
	quizService *service.QuizService
	manager     *session.Manager
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(quizService *service.QuizService, manager *session.Manager) *SessionHandler {
	return &SessionHandler{
		quizService: quizService,
		manager:     manager,
	}
}

// Start обрабатывает POST /api/quizzes/:id/session — начало попытки
func (h *SessionHandler) Start(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	quiz, err := h.quizService.GetByID(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	s := h.manager.Start(userID, quiz)
	c.JSON(http.StatusCreated, dto.NewSessionResponse(s.Snapshot()))
}

// getSession достает сессию вызывающего по параметру URL
func (h *SessionHandler) getSession(c *gin.Context) (*session.Session, bool) {
	sessionID := c.Param("id")
	userID := c.MustGet("user_id").(uint)

	s, err := h.manager.Get(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

// Get обрабатывает GET /api/sessions/:id — текущее состояние сессии
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(s.Snapshot()))
}

// Answer обрабатывает POST /api/sessions/:id/answer — выбор варианта
func (h *SessionHandler) Answer(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.SelectOption(*req.Option); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(s.Snapshot()))
}

// Next обрабатывает POST /api/sessions/:id/next
func (h *SessionHandler) Next(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}
	s.GoToNext()
	c.JSON(http.StatusOK, dto.NewSessionResponse(s.Snapshot()))
}

// Prev обрабатывает POST /api/sessions/:id/prev
func (h *SessionHandler) Prev(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}
	s.GoToPrevious()
	c.JSON(http.StatusOK, dto.NewSessionResponse(s.Snapshot()))
}

// Submit обрабатывает POST /api/sessions/:id/submit — ручную отправку
func (h *SessionHandler) Submit(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	summary, err := s.Submit()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewSubmitResponse(summary))
}
