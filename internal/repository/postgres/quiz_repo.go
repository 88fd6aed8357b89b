package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий тестов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новый тест
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает тест по ID вместе с вопросами
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// List возвращает все активные тесты, новые первыми
func (r *QuizRepo) List() ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// IncrementTimesTaken атомарно увеличивает счетчик прохождений теста
func (r *QuizRepo) IncrementTimesTaken(id uint) error {
	return r.db.Model(&entity.Quiz{}).
		Where("id = ?", id).
		UpdateColumn("times_taken", gorm.Expr("times_taken + ?", 1)).
		Error
}

// Count возвращает количество тестов в хранилище
func (r *QuizRepo) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Quiz{}).Count(&total).Error
	return total, err
}
