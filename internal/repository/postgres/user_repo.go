package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetLeaderboard возвращает пользователей для таблицы лидеров.
// Пользователи без отправок идут последними; остальные сортируются по
// среднему баллу, затем по суммарному, ID даёт стабильный порядок при равенстве.
func (r *UserRepo) GetLeaderboard(limit int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.
		Order("CASE WHEN tests_completed = 0 THEN 1 ELSE 0 END ASC, average_score DESC, total_score DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
