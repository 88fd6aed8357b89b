package jsonfile

import (
	"sort"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository поверх файлового хранилища
type QuizRepo struct {
	store *Store
}

// NewQuizRepo создает новый репозиторий тестов
func NewQuizRepo(store *Store) *QuizRepo {
	return &QuizRepo{store: store}
}

// Create создает новый тест
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	quiz.ID = s.nextID("quizzes")
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if quiz.Category == "" {
		quiz.Category = "general"
	}
	if quiz.Difficulty == "" {
		quiz.Difficulty = entity.DifficultyMedium
	}
	if quiz.TimeLimitMin <= 0 {
		quiz.TimeLimitMin = entity.DefaultTimeLimitMin
	}
	if quiz.PassingScore <= 0 {
		quiz.PassingScore = 60
	}

	cp := *quiz
	s.data.Quizzes = append(s.data.Quizzes, &cp)
	if err := s.persist(); err != nil {
		s.data.Quizzes = s.data.Quizzes[:len(s.data.Quizzes)-1]
		return err
	}
	return nil
}

// GetByID возвращает тест по ID вместе с вопросами
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data.Quizzes {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List возвращает все активные тесты, новые первыми
func (r *QuizRepo) List() ([]entity.Quiz, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	quizzes := make([]entity.Quiz, 0, len(s.data.Quizzes))
	for _, rec := range s.data.Quizzes {
		if rec.IsActive {
			quizzes = append(quizzes, *rec)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].ID > quizzes[j].ID
	})
	return quizzes, nil
}

// IncrementTimesTaken увеличивает счетчик прохождений теста
func (r *QuizRepo) IncrementTimesTaken(id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.data.Quizzes {
		if rec.ID == id {
			rec.TimesTaken++
			if err := s.persist(); err != nil {
				rec.TimesTaken--
				return err
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// Count возвращает количество тестов в хранилище
func (r *QuizRepo) Count() (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data.Quizzes)), nil
}
