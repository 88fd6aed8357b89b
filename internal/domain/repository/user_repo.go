package repository

import "github.com/yourusername/testing-platform-api/internal/domain/entity"

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создаёт нового пользователя
	Create(user *entity.User) error

	// GetByID возвращает пользователя по ID
	GetByID(id uint) (*entity.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(email string) (*entity.User, error)

	// GetLeaderboard возвращает пользователей, упорядоченных для таблицы лидеров:
	// пользователи без отправок в конце, остальные — по среднему баллу (убыв.),
	// затем по суммарному баллу (убыв.), затем по ID (возр.)
	GetLeaderboard(limit int) ([]entity.User, error)
}
