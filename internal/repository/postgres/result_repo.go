package postgres

import (
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveSubmission атомарно сохраняет результат и обновляет агрегаты пользователя.
// Инкременты выполняются на стороне SQL, поэтому конкурентные отправки
// одного пользователя не теряют обновлений.
func (r *ResultRepo) SaveSubmission(result *entity.TestResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			log.Printf("[ResultRepo.SaveSubmission] Ошибка при сохранении результата user=%d quiz=%d: %v",
				result.UserID, result.QuizID, err)
			return err
		}

		res := tx.Exec(
			`UPDATE users SET
				tests_completed = tests_completed + 1,
				total_score = total_score + ?,
				average_score = ROUND((total_score + ?)::numeric / (tests_completed + 1)),
				updated_at = NOW()
			WHERE id = ?`,
			result.Score, result.Score, result.UserID,
		)
		if res.Error != nil {
			log.Printf("[ResultRepo.SaveSubmission] Ошибка при обновлении статистики user=%d: %v",
				result.UserID, res.Error)
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetRecentByUser возвращает последние отправки пользователя с названиями тестов
func (r *ResultRepo) GetRecentByUser(userID uint, limit int) ([]repository.RecentResult, error) {
	var recent []repository.RecentResult
	err := r.db.Table("test_results").
		Select("quizzes.title AS quiz_title, test_results.score, test_results.completed_at").
		Joins("JOIN quizzes ON quizzes.id = test_results.quiz_id").
		Where("test_results.user_id = ?", userID).
		Order("test_results.completed_at DESC, test_results.id DESC").
		Limit(limit).
		Scan(&recent).Error
	return recent, err
}

// GetOverview возвращает сводную статистику по всем отправкам
func (r *ResultRepo) GetOverview() (*repository.OverviewStats, error) {
	overview := &repository.OverviewStats{}

	var totals struct {
		TotalTests   int
		TotalUsers   int
		AverageScore int
	}
	err := r.db.Table("test_results").
		Select(`COUNT(*) AS total_tests,
			COUNT(DISTINCT user_id) AS total_users,
			COALESCE(ROUND(AVG(score)), 0) AS average_score`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	overview.TotalTests = totals.TotalTests
	overview.TotalUsers = totals.TotalUsers
	overview.AverageScore = totals.AverageScore

	var categories []repository.CategoryStat
	err = r.db.Table("test_results").
		Select("category, COUNT(*) AS count, COALESCE(ROUND(AVG(score)), 0) AS average_score").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	overview.Categories = categories

	return overview, nil
}

// ListAll возвращает все результаты, новые первыми
func (r *ResultRepo) ListAll() ([]entity.TestResult, error) {
	var results []entity.TestResult
	err := r.db.Order("completed_at DESC, id DESC").Find(&results).Error
	return results, err
}
