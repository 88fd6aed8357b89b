package dto

import (
	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// QuizListItem — тест в списке каталога, без тел вопросов
type QuizListItem struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
	TimeLimit     int    `json:"timeLimit"`
}

// NewQuizListResponse создает список каталога из тестов
func NewQuizListResponse(quizzes []entity.Quiz) []QuizListItem {
	items := make([]QuizListItem, 0, len(quizzes))
	for i := range quizzes {
		q := &quizzes[i]
		items = append(items, QuizListItem{
			ID:            q.ID,
			Title:         q.Title,
			Description:   q.Description,
			Category:      q.Category,
			Difficulty:    q.Difficulty,
			QuestionCount: q.QuestionCount(),
			TimeLimit:     q.EffectiveTimeLimit(),
		})
	}
	return items
}

// QuizResponse — полное представление теста с вопросами
type QuizResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	Difficulty   string              `json:"difficulty"`
	TimeLimit    int                 `json:"timeLimit"`
	PassingScore int                 `json:"passingScore"`
	Questions    entity.QuestionList `json:"questions"`
}

// NewQuizResponse создает QuizResponse из entity.Quiz
func NewQuizResponse(quiz *entity.Quiz) QuizResponse {
	return QuizResponse{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		Category:     quiz.Category,
		Difficulty:   quiz.Difficulty,
		TimeLimit:    quiz.EffectiveTimeLimit(),
		PassingScore: quiz.PassingScore,
		Questions:    quiz.Questions,
	}
}

// SubmitRequest — отправка ответов на тест.
// Ответы позиционные; null означает пропущенный вопрос.
type SubmitRequest struct {
	Answers   []*int `json:"answers" binding:"required"`
	TimeSpent int    `json:"timeSpent"`
}

// ResultPayload — итог подсчета одной отправки
type ResultPayload struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
}

// SubmitResponse — ответ на отправку теста
type SubmitResponse struct {
	Success bool          `json:"success"`
	Result  ResultPayload `json:"result"`
}

// NewSubmitResponse создает SubmitResponse из итога подсчета
func NewSubmitResponse(summary *service.AttemptSummary) SubmitResponse {
	return SubmitResponse{
		Success: true,
		Result: ResultPayload{
			Score:          summary.Score,
			CorrectAnswers: summary.CorrectAnswers,
			TotalQuestions: summary.TotalQuestions,
		},
	}
}
