package repository

import (
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
)

// RecentResult — запись о недавней отправке с названием теста
type RecentResult struct {
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// CategoryStat — агрегат результатов по одной категории
type CategoryStat struct {
	Category     string
	Count        int
	AverageScore int
}

// OverviewStats — сводная статистика платформы
type OverviewStats struct {
	TotalTests   int
	TotalUsers   int
	AverageScore int
	Categories   []CategoryStat
}

// ResultRepository определяет методы для работы с результатами тестов
type ResultRepository interface {
	// SaveSubmission атомарно сохраняет результат и обновляет агрегаты пользователя
	// (tests_completed, total_score, average_score). Либо применяется всё,
	// либо ничего — частичное применение недопустимо.
	SaveSubmission(result *entity.TestResult) error

	// GetRecentByUser возвращает последние отправки пользователя (новые первыми)
	// вместе с названиями тестов
	GetRecentByUser(userID uint, limit int) ([]RecentResult, error)

	// GetOverview возвращает сводную статистику: количество отправок,
	// число участвовавших пользователей, средний балл и разбивку по категориям
	GetOverview() (*OverviewStats, error)

	// ListAll возвращает все результаты (новые первыми) для экспорта
	ListAll() ([]entity.TestResult, error)
}
