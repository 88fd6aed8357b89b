package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AnswerArray — снимок ответов пользователя, хранимый в JSONB.
// nil-элемент означает, что вопрос был пропущен.
type AnswerArray []*int

// Value реализует интерфейс driver.Valuer для сохранения в JSONB
func (a AnswerArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации ответов: %w", err)
	}
	return string(data), nil
}

// Scan реализует интерфейс sql.Scanner для чтения из JSONB
func (a *AnswerArray) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerArray{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("неподдерживаемый тип данных для AnswerArray")
	}

	return json.Unmarshal(data, a)
}

// TestResult представляет результат одной отправки теста.
// Category и Difficulty — снимок полей теста на момент отправки,
// чтобы статистика по категориям не менялась при редактировании теста.
type TestResult struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	QuizID         uint        `gorm:"not null;index" json:"quiz_id"`
	Score          int         `gorm:"not null" json:"score"`
	CorrectAnswers int         `gorm:"not null" json:"correct_answers"`
	TotalQuestions int         `gorm:"not null" json:"total_questions"`
	TimeSpentMin   int         `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	Answers        AnswerArray `gorm:"column:results;type:jsonb" json:"answers"`
	Category       string      `gorm:"size:100;not null;default:'general'" json:"category"`
	Difficulty     string      `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	CompletedAt    time.Time   `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestResult) TableName() string {
	return "test_results"
}

// IsPassed сравнивает результат с проходным баллом теста
func (r *TestResult) IsPassed(passingScore int) bool {
	return r.Score >= passingScore
}
