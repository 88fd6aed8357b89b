package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Question представляет один вопрос теста с вариантами ответов.
// Correct — индекс правильного варианта в Options.
// Points — вес вопроса при подсчёте баллов; 0 трактуется как вес 1.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
	Points  int      `json:"points,omitempty"`
}

// IsValidOption проверяет, что индекс варианта находится в допустимых границах
func (q *Question) IsValidOption(option int) bool {
	return option >= 0 && option < len(q.Options)
}

// IsCorrect проверяет, является ли переданный вариант правильным ответом.
// Индекс за пределами Options никогда не считается правильным.
func (q *Question) IsCorrect(option int) bool {
	return q.IsValidOption(option) && option == q.Correct
}

// Weight возвращает вес вопроса для подсчёта баллов (минимум 1)
func (q *Question) Weight() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// QuestionList — список вопросов, хранимый в колонке JSONB
type QuestionList []Question

// Value реализует интерфейс driver.Valuer для сохранения в JSONB
func (ql QuestionList) Value() (driver.Value, error) {
	if ql == nil {
		return "[]", nil
	}
	data, err := json.Marshal(ql)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации вопросов: %w", err)
	}
	return string(data), nil
}

// Scan реализует интерфейс sql.Scanner для чтения из JSONB
func (ql *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*ql = QuestionList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("неподдерживаемый тип данных для QuestionList")
	}

	return json.Unmarshal(data, ql)
}

// TotalWeight возвращает суммарный вес всех вопросов списка
func (ql QuestionList) TotalWeight() int {
	total := 0
	for i := range ql {
		total += ql[i].Weight()
	}
	return total
}
