package repository

import "github.com/yourusername/testing-platform-api/internal/domain/entity"

// QuizRepository определяет методы для работы с тестами
type QuizRepository interface {
	// Create создаёт новый тест
	Create(quiz *entity.Quiz) error

	// GetByID возвращает тест по ID вместе с вопросами
	GetByID(id uint) (*entity.Quiz, error)

	// List возвращает все активные тесты
	List() ([]entity.Quiz, error)

	// IncrementTimesTaken атомарно увеличивает счётчик прохождений теста
	IncrementTimesTaken(id uint) error

	// Count возвращает количество тестов в хранилище
	Count() (int64, error)
}
