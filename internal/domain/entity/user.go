package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User представляет пользователя платформы тестирования.
// Поля TestsCompleted/TotalScore/AverageScore — накопительная статистика,
// которую обновляет только Scoring Engine при каждой отправке теста.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string `gorm:"size:100;not null;column:password_hash" json:"-"`
	FirstName string `gorm:"size:100;not null;default:''" json:"first_name"`
	LastName  string `gorm:"size:100;not null;default:''" json:"last_name"`
	Role      string `gorm:"size:20;not null;default:'student'" json:"role"`

	// Накопительные агрегаты. Инвариант: AverageScore == round(TotalScore/TestsCompleted)
	// при TestsCompleted > 0; иначе 0. Никогда не уменьшаются.
	TestsCompleted int `gorm:"not null;default:0" json:"tests_completed"`
	TotalScore     int `gorm:"not null;default:0;index:idx_users_leaderboard" json:"total_score"`
	AverageScore   int `gorm:"not null;default:0;index:idx_users_leaderboard" json:"average_score"`

	IsActive  bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он не пустой и ещё не bcrypt-хеш
	// (bcrypt-хеши начинаются с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// DisplayName возвращает имя для отображения в лидерборде:
// "Имя Фамилия", либо локальную часть email, если профиль не заполнен.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// ApplySubmission применяет результат одной отправки к агрегатам пользователя.
// Используется JSON-файловым хранилищем; для PostgreSQL та же арифметика
// выполняется на стороне SQL внутри транзакции.
func (u *User) ApplySubmission(score int) {
	u.TestsCompleted++
	u.TotalScore += score
	u.AverageScore = RoundAverage(u.TotalScore, u.TestsCompleted)
}

// RoundAverage возвращает округлённое среднее total/count, 0 при count <= 0.
func RoundAverage(total, count int) int {
	if count <= 0 {
		return 0
	}
	// Округление к ближайшему целому без float (total и count неотрицательные)
	return (total*2 + count) / (count * 2)
}
