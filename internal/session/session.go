package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// Состояния сессии прохождения теста
const (
	StateInProgress = "in_progress"
	StateTimedOut   = "timed_out"
	StateSubmitted  = "submitted"
)

// Scorer принимает завершенную попытку на подсчет и сохранение
type Scorer interface {
	SubmitAttempt(userID, quizID uint, answers []*int, timeSpentMin int) (*service.AttemptSummary, error)
}

// Session — одна попытка прохождения теста одним пользователем.
// Все состояние инкапсулировано в объекте и защищено мьютексом;
// один пользователь может держать несколько независимых сессий.
//
// Машина состояний: InProgress → (TimedOut) → Submitted.
// TimedOut достигается только по истечении таймера и через короткую
// паузу автоматически переходит в Submitted. Из Submitted выходов нет.
type Session struct {
	ID        string
	UserID    uint
	Quiz      *entity.Quiz
	StartedAt time.Time

	scorer Scorer
	timer  *Timer
	grace  time.Duration

	mu           sync.Mutex
	state        string
	currentIndex int
	answers      []*int
	wasTimedOut  bool
	summary      *service.AttemptSummary
	finishedAt   time.Time

	subMu       sync.Mutex
	subscribers map[chan Tick]struct{}
}

// Snapshot — копия наблюдаемого состояния сессии
type Snapshot struct {
	ID               string
	QuizID           uint
	State            string
	CurrentIndex     int
	Answers          []*int
	RemainingSeconds int
	PercentRemaining float64
	WasTimedOut      bool
	Summary          *service.AttemptSummary
}

func newSession(id string, userID uint, quiz *entity.Quiz, scorer Scorer, grace time.Duration) *Session {
	s := &Session{
		ID:          id,
		UserID:      userID,
		Quiz:        quiz,
		StartedAt:   time.Now(),
		scorer:      scorer,
		grace:       grace,
		state:       StateInProgress,
		answers:     make([]*int, len(quiz.Questions)),
		subscribers: make(map[chan Tick]struct{}),
	}
	s.timer = NewTimer(quiz.EffectiveTimeLimit()*60, s.broadcast, s.handleExpiry)
	s.timer.Start()
	return s
}

// SelectOption записывает ответ на текущий вопрос.
// Повторный выбор того же варианта безопасен; прежний выбор перезаписывается.
func (s *Session) SelectOption(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return apperrors.ErrConflict
	}
	question := &s.Quiz.Questions[s.currentIndex]
	if !question.IsValidOption(option) {
		return fmt.Errorf("%w: вариант %d вне диапазона [0, %d)",
			apperrors.ErrValidation, option, len(question.Options))
	}

	v := option
	s.answers[s.currentIndex] = &v
	return nil
}

// GoToNext переходит к следующему вопросу; на последнем вопросе — no-op
func (s *Session) GoToNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitted && s.currentIndex < len(s.Quiz.Questions)-1 {
		s.currentIndex++
	}
}

// GoToPrevious переходит к предыдущему вопросу; на первом вопросе — no-op
func (s *Session) GoToPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitted && s.currentIndex > 0 {
		s.currentIndex--
	}
}

// Submit завершает сессию вручную: останавливает таймер, подсчитывает
// затраченное время в полных минутах и передает ответы на подсчет.
// Повторная отправка возвращает ErrConflict. Если сохранение не удалось,
// сессия остается в прежнем состоянии и отправку можно повторить.
func (s *Session) Submit() (*service.AttemptSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked()
}

func (s *Session) submitLocked() (*service.AttemptSummary, error) {
	if s.state == StateSubmitted {
		return nil, apperrors.ErrConflict
	}

	s.timer.Stop()

	elapsed := int(time.Since(s.StartedAt).Minutes())
	summary, err := s.scorer.SubmitAttempt(s.UserID, s.Quiz.ID, s.answers, elapsed)
	if err != nil {
		// Состояние не меняем: ответы сохранены, отправку можно повторить
		return nil, err
	}

	s.state = StateSubmitted
	s.summary = summary
	s.finishedAt = time.Now()
	return summary, nil
}

// finishedBefore сообщает, была ли сессия отправлена раньше указанного момента
func (s *Session) finishedBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateSubmitted && s.finishedAt.Before(cutoff)
}

// handleExpiry вызывается таймером при достижении нуля.
// Сессия помечается истекшей и после короткой паузы отправляется сама.
func (s *Session) handleExpiry() {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.state = StateTimedOut
	s.wasTimedOut = true
	s.mu.Unlock()

	log.Printf("[Session] Время сессии %s истекло, автоотправка через %s", s.ID, s.grace)
	time.AfterFunc(s.grace, s.autoSubmit)
}

func (s *Session) autoSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return
	}
	if _, err := s.submitLocked(); err != nil {
		// Ошибка автоотправки идет тем же путем, что и ручная:
		// сессия остается доступной для повторной отправки
		log.Printf("[Session] Автоотправка сессии %s не удалась: %v", s.ID, err)
	}
}

// WasTimedOut сообщает, истекло ли время сессии
func (s *Session) WasTimedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wasTimedOut
}

// State возвращает текущее состояние сессии
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot возвращает копию наблюдаемого состояния сессии
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make([]*int, len(s.answers))
	copy(answers, s.answers)

	tick := s.timer.Snapshot()
	return Snapshot{
		ID:               s.ID,
		QuizID:           s.Quiz.ID,
		State:            s.state,
		CurrentIndex:     s.currentIndex,
		Answers:          answers,
		RemainingSeconds: tick.RemainingSeconds,
		PercentRemaining: tick.PercentRemaining,
		WasTimedOut:      s.wasTimedOut,
		Summary:          s.summary,
	}
}

// Subscribe подписывает получателя на тики таймера.
// Возвращает канал событий и функцию отписки.
func (s *Session) Subscribe() (<-chan Tick, func()) {
	ch := make(chan Tick, 8)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	unsubscribe := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, unsubscribe
}

// broadcast рассылает тик всем подписчикам, не блокируясь на медленных
func (s *Session) broadcast(tick Tick) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- tick:
		default:
		}
	}
}
