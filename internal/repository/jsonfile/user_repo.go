package jsonfile

import (
	"sort"
	"strings"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository поверх файлового хранилища
type UserRepo struct {
	store *Store
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create создает нового пользователя.
// Пароль хешируется тем же хуком, что и в реляционном бекенде.
func (r *UserRepo) Create(user *entity.User) error {
	if err := user.BeforeSave(nil); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.data.Users {
		if strings.EqualFold(rec.Email, user.Email) {
			return apperrors.ErrConflict
		}
	}

	now := time.Now()
	user.ID = s.nextID("users")
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = entity.RoleStudent
	}
	user.IsActive = true

	s.data.Users = append(s.data.Users, newUserRecord(user))
	if err := s.persist(); err != nil {
		s.data.Users = s.data.Users[:len(s.data.Users)-1]
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data.Users {
		if rec.ID == id {
			return rec.toEntity(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// GetByEmail возвращает пользователя по email (без учета регистра)
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data.Users {
		if strings.EqualFold(rec.Email, email) {
			return rec.toEntity(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// GetLeaderboard возвращает пользователей в порядке таблицы лидеров
func (r *UserRepo) GetLeaderboard(limit int) ([]entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]entity.User, 0, len(s.data.Users))
	for _, rec := range s.data.Users {
		users = append(users, *rec.toEntity())
	}

	sort.Slice(users, func(i, j int) bool {
		a, b := &users[i], &users[j]
		// Пользователи без отправок всегда в конце
		if (a.TestsCompleted == 0) != (b.TestsCompleted == 0) {
			return b.TestsCompleted == 0
		}
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
