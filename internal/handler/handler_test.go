package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/gamification"
	"github.com/yourusername/testing-platform-api/internal/middleware"
	"github.com/yourusername/testing-platform-api/internal/repository/jsonfile"
	"github.com/yourusername/testing-platform-api/internal/service"
	"github.com/yourusername/testing-platform-api/internal/session"
	"github.com/yourusername/testing-platform-api/pkg/auth"
)

// testAPI — полный HTTP-стек поверх файлового хранилища во временной папке
type testAPI struct {
	router      *gin.Engine
	authService *service.AuthService
	quizService *service.QuizService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := jsonfile.NewStore(filepath.Join(dir, "platform.json"))
	require.NoError(t, err)

	users := jsonfile.NewUserRepo(store)
	quizzes := jsonfile.NewQuizRepo(store)
	results := jsonfile.NewResultRepo(store)

	jwtService := auth.NewJWTService("test-secret", 24)
	authService := service.NewAuthService(users, jwtService)
	quizService := service.NewQuizService(quizzes, entity.DefaultTimeLimitMin)
	scoringService := service.NewScoringService(quizzes, results, users)
	statsService := service.NewStatsService(users, results)

	tracker, err := gamification.NewTracker(filepath.Join(dir, "gamification.json"))
	require.NoError(t, err)
	scoringService.Subscribe(tracker)

	manager := session.NewManager(scoringService, 50*time.Millisecond)

	authHandler := NewAuthHandler(authService)
	quizHandler := NewQuizHandler(quizService, scoringService)
	userHandler := NewUserHandler(authService, statsService, tracker)
	statsHandler := NewStatsHandler(statsService)
	sessionHandler := NewSessionHandler(quizService, manager)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/leaderboard", userHandler.GetLeaderboard)
		api.GET("/stats/overview", statsHandler.Overview)
		api.GET("/quizzes", quizHandler.List)

		quizByID := api.Group("/quizzes/:id")
		quizByID.Use(middleware.ExtractUintParam("id", "quizID"))
		{
			quizByID.GET("", quizHandler.Get)
			authed := quizByID.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("/submit", quizHandler.Submit)
				authed.POST("/session", sessionHandler.Start)
			}
		}

		userByID := api.Group("/users/:id")
		userByID.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "userID"))
		{
			userByID.GET("", userHandler.GetUser)
			userByID.GET("/stats", userHandler.GetUserStats)
			userByID.GET("/progress", userHandler.GetUserProgress)
		}

		sessions := api.Group("/sessions/:id")
		sessions.Use(authMiddleware.RequireAuth())
		{
			sessions.GET("", sessionHandler.Get)
			sessions.POST("/answer", sessionHandler.Answer)
			sessions.POST("/next", sessionHandler.Next)
			sessions.POST("/prev", sessionHandler.Prev)
			sessions.POST("/submit", sessionHandler.Submit)
		}

		api.GET("/stats/export", authMiddleware.RequireAuth(), statsHandler.Export)
	}

	return &testAPI{router: router, authService: authService, quizService: quizService}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) registerUser(t *testing.T, email string) (uint, string) {
	t.Helper()
	user, token, err := a.authService.Register(email, "secret123", "Иван", "Петров")
	require.NoError(t, err)
	return user.ID, token
}

func (a *testAPI) createQuiz(t *testing.T) *entity.Quiz {
	t.Helper()
	quiz := &entity.Quiz{
		Title:      "Основы Go",
		Category:   "programming",
		Difficulty: entity.DifficultyMedium,
		Questions: entity.QuestionList{
			{ID: 1, Text: "Вопрос 1", Options: []string{"a", "b", "c"}, Correct: 1},
			{ID: 2, Text: "Вопрос 2", Options: []string{"a", "b"}, Correct: 0},
			{ID: 3, Text: "Вопрос 3", Options: []string{"a", "b", "c"}, Correct: 2},
		},
	}
	require.NoError(t, a.quizService.Create(quiz))
	return quiz
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	api := newTestAPI(t)

	// Регистрация
	w := api.do(http.MethodPost, "/api/register", "", gin.H{
		"email": "ivan@example.com", "password": "secret123",
		"first_name": "Иван", "last_name": "Петров",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)
	assert.NotEmpty(t, body["token"])

	// Повторная регистрация — конфликт
	w = api.do(http.MethodPost, "/api/register", "", gin.H{
		"email": "ivan@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Вход
	w = api.do(http.MethodPost, "/api/login", "", gin.H{
		"email": "ivan@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Вход с неверным паролем
	w = api.do(http.MethodPost, "/api/login", "", gin.H{
		"email": "ivan@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetQuizIncludesAnswerKey(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)

	w := api.do(http.MethodGet, fmt.Sprintf("/api/quizzes/%d", quiz.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	questions := body["questions"].([]interface{})
	require.Len(t, questions, 3)
	first := questions[0].(map[string]interface{})
	assert.Equal(t, "Вопрос 1", first["question"])
	assert.Equal(t, float64(1), first["correct"])
	assert.Equal(t, float64(60), body["timeLimit"])
}

func TestGetQuizNotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/quizzes/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/quizzes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEndpoint(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)
	userID, token := api.registerUser(t, "ivan@example.com")

	// Без токена — отказ
	w := api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), "",
		gin.H{"answers": []interface{}{1, 1, 2}, "timeSpent": 5})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// С токеном — подсчет и сохранение
	w = api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), token,
		gin.H{"answers": []interface{}{1, 1, 2}, "timeSpent": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	assert.Equal(t, true, body["success"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, float64(67), result["score"])
	assert.Equal(t, float64(2), result["correctAnswers"])
	assert.Equal(t, float64(3), result["totalQuestions"])

	// Статистика обновилась
	w = api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/stats", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["testsCompleted"])
	assert.Equal(t, float64(67), stats["averageScore"])
	recent := body["recentResults"].([]interface{})
	require.Len(t, recent, 1)
	assert.Equal(t, "Основы Go", recent[0].(map[string]interface{})["quiz_title"])
}

func TestUserEndpointsSelfOnly(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser(t, "ivan@example.com")
	otherID, _ := api.registerUser(t, "other@example.com")

	w := api.do(http.MethodGet, fmt.Sprintf("/api/users/%d", otherID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/stats", otherID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaderboardAndOverviewEndpoints(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)
	_, tokenA := api.registerUser(t, "a@example.com")
	_, tokenB := api.registerUser(t, "b@example.com")
	api.registerUser(t, "idle@example.com")

	// A отвечает на все правильно, B — ни на один
	w := api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), tokenA,
		gin.H{"answers": []interface{}{1, 0, 2}, "timeSpent": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), tokenB,
		gin.H{"answers": []interface{}{nil, nil, nil}, "timeSpent": 1})
	require.Equal(t, http.StatusOK, w.Code)

	// Таблица лидеров: A, B, бездействующий в конце
	w = api.do(http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leaders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leaders))
	require.Len(t, leaders, 3)
	assert.Equal(t, float64(100), leaders[0]["averageScore"])
	assert.Equal(t, float64(0), leaders[2]["testsCompleted"])

	// Сводная статистика
	w = api.do(http.MethodGet, "/api/stats/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, float64(2), body["totalTests"])
	assert.Equal(t, float64(2), body["totalUsers"])
	assert.Equal(t, float64(50), body["averageScore"])
	categories := body["categoryStats"].(map[string]interface{})
	programming := categories["programming"].(map[string]interface{})
	assert.Equal(t, float64(2), programming["count"])
}

func TestSessionFlowEndpoints(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)
	_, token := api.registerUser(t, "ivan@example.com")

	// Старт сессии
	w := api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/session", quiz.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)
	sessionID := body["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "in_progress", body["state"])

	// Ответ и навигация
	w = api.do(http.MethodPost, "/api/sessions/"+sessionID+"/answer", token, gin.H{"option": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, "/api/sessions/"+sessionID+"/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	assert.Equal(t, float64(1), body["currentQuestion"])

	// Недопустимый вариант
	w = api.do(http.MethodPost, "/api/sessions/"+sessionID+"/answer", token, gin.H{"option": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Отправка
	w = api.do(http.MethodPost, "/api/sessions/"+sessionID+"/submit", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	result := body["result"].(map[string]interface{})
	assert.Equal(t, float64(33), result["score"])

	// Повторная отправка — конфликт
	w = api.do(http.MethodPost, "/api/sessions/"+sessionID+"/submit", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Чужая сессия недоступна
	_, otherToken := api.registerUser(t, "other@example.com")
	w = api.do(http.MethodGet, "/api/sessions/"+sessionID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)
	_, token := api.registerUser(t, "ivan@example.com")

	w := api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), token,
		gin.H{"answers": []interface{}{1, 0, 2}, "timeSpent": 2})
	require.Equal(t, http.StatusOK, w.Code)

	// CSV по умолчанию
	w = api.do(http.MethodGet, "/api/stats/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "100")

	// XLSX
	w = api.do(http.MethodGet, "/api/stats/export?format=xlsx", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())

	// Неизвестный формат
	w = api.do(http.MethodGet, "/api/stats/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressEndpoint(t *testing.T) {
	api := newTestAPI(t)
	quiz := api.createQuiz(t)
	userID, token := api.registerUser(t, "ivan@example.com")

	w := api.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), token,
		gin.H{"answers": []interface{}{1, 0, 2}, "timeSpent": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/progress", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, float64(100), body["xp"])
	assert.Equal(t, float64(1), body["level"])
	achievements := body["achievements"].([]interface{})
	assert.Contains(t, achievements, "first_test")
	assert.Contains(t, achievements, "perfect_score")
}
