package service

import (
	"fmt"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// QuizService отвечает за каталог тестов
type QuizService struct {
	quizRepo            repository.QuizRepository
	defaultTimeLimitMin int
}

// NewQuizService создает новый сервис тестов.
// defaultTimeLimitMin применяется к тестам, созданным без лимита времени;
// неположительное значение заменяется встроенным умолчанием.
func NewQuizService(quizRepo repository.QuizRepository, defaultTimeLimitMin int) *QuizService {
	if defaultTimeLimitMin <= 0 {
		defaultTimeLimitMin = entity.DefaultTimeLimitMin
	}
	return &QuizService{
		quizRepo:            quizRepo,
		defaultTimeLimitMin: defaultTimeLimitMin,
	}
}

// List возвращает все активные тесты
func (s *QuizService) List() ([]entity.Quiz, error) {
	return s.quizRepo.List()
}

// GetByID возвращает тест по ID; неактивные тесты недоступны
func (s *QuizService) GetByID(id uint) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, apperrors.ErrNotFound
	}
	return quiz, nil
}

// Create валидирует и создает новый тест
func (s *QuizService) Create(quiz *entity.Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("%w: название теста обязательно", apperrors.ErrValidation)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: тест должен содержать хотя бы один вопрос", apperrors.ErrValidation)
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: вопрос %d должен иметь не менее двух вариантов", apperrors.ErrValidation, i+1)
		}
		if !q.IsValidOption(q.Correct) {
			return fmt.Errorf("%w: вопрос %d ссылается на несуществующий правильный вариант", apperrors.ErrValidation, i+1)
		}
	}
	switch quiz.Difficulty {
	case "", entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard:
	default:
		return fmt.Errorf("%w: недопустимая сложность %q", apperrors.ErrValidation, quiz.Difficulty)
	}

	if quiz.Category == "" {
		quiz.Category = "general"
	}
	if quiz.Difficulty == "" {
		quiz.Difficulty = entity.DifficultyMedium
	}
	if quiz.TimeLimitMin <= 0 {
		quiz.TimeLimitMin = s.defaultTimeLimitMin
	}
	quiz.IsActive = true

	return s.quizRepo.Create(quiz)
}
