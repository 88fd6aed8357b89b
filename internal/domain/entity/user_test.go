package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserBeforeSaveHashesPassword(t *testing.T) {
	// Arrange
	user := &User{
		Email:    "test@example.com",
		Password: "secret123",
	}

	// Act
	err := user.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.Password, "пароль должен быть захеширован")
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUserBeforeSaveSkipsAlreadyHashed(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &User{Email: "test@example.com", Password: string(hashed)}

	// Act
	err = user.BeforeSave(nil)

	// Assert — повторного хеширования быть не должно
	require.NoError(t, err)
	assert.Equal(t, string(hashed), user.Password)
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "имя и фамилия заполнены",
			user:     User{Email: "ivan@example.com", FirstName: "Иван", LastName: "Петров"},
			expected: "Иван Петров",
		},
		{
			name:     "только имя",
			user:     User{Email: "ivan@example.com", FirstName: "Иван"},
			expected: "Иван",
		},
		{
			name:     "пустой профиль — локальная часть email",
			user:     User{Email: "ivan@example.com"},
			expected: "ivan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestUserApplySubmission(t *testing.T) {
	// Arrange
	user := &User{}

	// Act — три отправки подряд
	user.ApplySubmission(90)
	user.ApplySubmission(70)
	user.ApplySubmission(80)

	// Assert
	assert.Equal(t, 3, user.TestsCompleted)
	assert.Equal(t, 240, user.TotalScore)
	assert.Equal(t, 80, user.AverageScore)
}

func TestRoundAverage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		count    int
		expected int
	}{
		{"ноль отправок", 0, 0, 0},
		{"ровное деление", 240, 3, 80},
		{"округление вверх", 201, 2, 101},
		{"округление вниз", 200, 3, 67},
		{"половина округляется вверх", 50, 4, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundAverage(tt.total, tt.count))
		})
	}
}
