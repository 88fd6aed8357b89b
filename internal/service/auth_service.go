package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
	"github.com/yourusername/testing-platform-api/pkg/auth"
)

// MinPasswordLength — минимально допустимая длина пароля
const MinPasswordLength = 6

// AuthService отвечает за регистрацию и вход пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя и сразу выдает токен
func (s *AuthService) Register(email, password, firstName, lastName string) (*entity.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: некорректный email", apperrors.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, "", fmt.Errorf("%w: пароль должен содержать не менее %d символов",
			apperrors.ErrValidation, MinPasswordLength)
	}

	// Проверяем занятость email до создания; уникальный индекс в БД
	// остается последней линией защиты от гонки
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	user := &entity.User{
		Email:     email,
		Password:  password,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      entity.RoleStudent,
		IsActive:  true,
	}
	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка при создании пользователя %s: %v", email, err)
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d, Email=%s", user.ID, user.Email)
	return user, token, nil
}

// Login проверяет учетные данные и выдает токен
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, существует ли пользователь
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser возвращает пользователя по ID
func (s *AuthService) GetUser(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}
