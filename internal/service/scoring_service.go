package service

import (
	"log"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
)

// AttemptSummary — итог одной отправки теста
type AttemptSummary struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
}

// SubmissionSubscriber получает уведомление о каждой успешно сохранённой отправке.
// Ошибки подписчика не влияют на результат отправки.
type SubmissionSubscriber interface {
	OnSubmission(user *entity.User, result *entity.TestResult)
}

// ScoringService подсчитывает баллы и сохраняет результаты отправок
type ScoringService struct {
	quizRepo    repository.QuizRepository
	resultRepo  repository.ResultRepository
	userRepo    repository.UserRepository
	subscribers []SubmissionSubscriber
}

// NewScoringService создает новый сервис подсчета баллов
func NewScoringService(
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
) *ScoringService {
	return &ScoringService{
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		userRepo:   userRepo,
	}
}

// Subscribe регистрирует подписчика на успешные отправки
func (s *ScoringService) Subscribe(sub SubmissionSubscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// SubmitAttempt подсчитывает баллы за отправку и атомарно сохраняет
// результат вместе с обновлением статистики пользователя.
// answers позиционно соответствуют вопросам теста; nil — пропущенный вопрос.
func (s *ScoringService) SubmitAttempt(userID, quizID uint, answers []*int, timeSpentMin int) (*AttemptSummary, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	score, correct := ComputeScore(quiz.Questions, answers)
	if timeSpentMin < 0 {
		timeSpentMin = 0
	}

	result := &entity.TestResult{
		UserID:         userID,
		QuizID:         quizID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(quiz.Questions),
		TimeSpentMin:   timeSpentMin,
		Answers:        snapshotAnswers(answers, len(quiz.Questions)),
		Category:       quiz.Category,
		Difficulty:     quiz.Difficulty,
		CompletedAt:    time.Now(),
	}

	if err := s.resultRepo.SaveSubmission(result); err != nil {
		log.Printf("[ScoringService] Ошибка при сохранении отправки user=%d quiz=%d: %v", userID, quizID, err)
		return nil, err
	}

	// Счетчик прохождений не входит в атомарную часть: его потеря не
	// нарушает инварианты статистики пользователя
	if err := s.quizRepo.IncrementTimesTaken(quizID); err != nil {
		log.Printf("[ScoringService] Не удалось увеличить счетчик прохождений quiz=%d: %v", quizID, err)
	}

	s.notify(result)

	return &AttemptSummary{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(quiz.Questions),
	}, nil
}

func (s *ScoringService) notify(result *entity.TestResult) {
	if len(s.subscribers) == 0 {
		return
	}
	user, err := s.userRepo.GetByID(result.UserID)
	if err != nil {
		log.Printf("[ScoringService] Не удалось загрузить пользователя %d для уведомлений: %v", result.UserID, err)
		return
	}
	for _, sub := range s.subscribers {
		sub.OnSubmission(user, result)
	}
}

// ComputeScore возвращает процентный балл и число правильных ответов.
// Балл взвешен по весам вопросов: score = round(earned/total * 100).
// Пропущенный, отсутствующий или выходящий за границы вариантов ответ
// считается неправильным и никогда не является ошибкой.
func ComputeScore(questions entity.QuestionList, answers []*int) (score, correct int) {
	totalWeight := questions.TotalWeight()
	if totalWeight == 0 {
		return 0, 0
	}

	earned := 0
	for i := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if questions[i].IsCorrect(*answers[i]) {
			earned += questions[i].Weight()
			correct++
		}
	}

	return entity.RoundAverage(earned*100, totalWeight), correct
}

// snapshotAnswers нормализует срез ответов к длине списка вопросов,
// чтобы снимок в результате всегда был позиционно полным
func snapshotAnswers(answers []*int, questionCount int) entity.AnswerArray {
	snapshot := make(entity.AnswerArray, questionCount)
	for i := 0; i < questionCount && i < len(answers); i++ {
		if answers[i] != nil {
			v := *answers[i]
			snapshot[i] = &v
		}
	}
	return snapshot
}
