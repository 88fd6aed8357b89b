package dto

import "github.com/yourusername/testing-platform-api/internal/session"

// AnswerRequest — выбор варианта ответа на текущий вопрос сессии
type AnswerRequest struct {
	Option *int `json:"option" binding:"required"`
}

// SessionResponse — наблюдаемое состояние сессии прохождения
type SessionResponse struct {
	SessionID        string         `json:"sessionId"`
	QuizID           uint           `json:"quizId"`
	State            string         `json:"state"`
	CurrentQuestion  int            `json:"currentQuestion"`
	Answers          []*int         `json:"answers"`
	RemainingSeconds int            `json:"remainingSeconds"`
	PercentRemaining float64        `json:"percentRemaining"`
	WasTimedOut      bool           `json:"wasTimedOut"`
	Result           *ResultPayload `json:"result,omitempty"`
}

// NewSessionResponse создает SessionResponse из снимка сессии
func NewSessionResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{
		SessionID:        snap.ID,
		QuizID:           snap.QuizID,
		State:            snap.State,
		CurrentQuestion:  snap.CurrentIndex,
		Answers:          snap.Answers,
		RemainingSeconds: snap.RemainingSeconds,
		PercentRemaining: snap.PercentRemaining,
		WasTimedOut:      snap.WasTimedOut,
	}
	if snap.Summary != nil {
		resp.Result = &ResultPayload{
			Score:          snap.Summary.Score,
			CorrectAnswers: snap.Summary.CorrectAnswers,
			TotalQuestions: snap.Summary.TotalQuestions,
		}
	}
	return resp
}
