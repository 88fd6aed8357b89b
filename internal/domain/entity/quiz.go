package entity

import (
	"time"
)

// Уровни сложности теста
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DefaultTimeLimitMin — лимит времени по умолчанию, если тест его не задаёт
const DefaultTimeLimitMin = 60

// Quiz представляет тест с набором вопросов.
// Questions хранятся целиком в JSONB, как единый снимок: порядок вопросов
// фиксирован и не меняется между загрузкой и отправкой.
type Quiz struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Category     string       `gorm:"size:100;not null;default:'general';index" json:"category"`
	Difficulty   string       `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	Questions    QuestionList `gorm:"type:jsonb;not null" json:"questions"`
	TimeLimitMin int          `gorm:"column:time_limit;not null;default:60" json:"time_limit"`
	PassingScore int          `gorm:"not null;default:60" json:"passing_score"`
	TimesTaken   int          `gorm:"not null;default:0" json:"times_taken"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// QuestionCount возвращает количество вопросов в тесте
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// EffectiveTimeLimit возвращает лимит времени в минутах с учётом значения по умолчанию
func (q *Quiz) EffectiveTimeLimit() int {
	if q.TimeLimitMin > 0 {
		return q.TimeLimitMin
	}
	return DefaultTimeLimitMin
}
