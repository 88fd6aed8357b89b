package jsonfile

import (
	"sort"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository поверх файлового хранилища
type ResultRepo struct {
	store *Store
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(store *Store) *ResultRepo {
	return &ResultRepo{store: store}
}

// SaveSubmission сохраняет результат и обновляет агрегаты пользователя.
// Все изменения выполняются под одной блокировкой записи и попадают
// на диск одной записью файла, поэтому частичное применение невозможно.
func (r *ResultRepo) SaveSubmission(result *entity.TestResult) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *userRecord
	for _, rec := range s.data.Users {
		if rec.ID == result.UserID {
			user = rec
			break
		}
	}
	if user == nil {
		return apperrors.ErrNotFound
	}

	result.ID = s.nextID("results")
	result.CreatedAt = time.Now()
	cp := *result
	s.data.Results = append(s.data.Results, &cp)

	// Снимок агрегатов для отката при неудачной записи файла
	before := user.User
	user.ApplySubmission(result.Score)
	user.UpdatedAt = time.Now()

	if err := s.persist(); err != nil {
		s.data.Results = s.data.Results[:len(s.data.Results)-1]
		user.User = before
		return err
	}
	return nil
}

// GetRecentByUser возвращает последние отправки пользователя с названиями тестов
func (r *ResultRepo) GetRecentByUser(userID uint, limit int) ([]repository.RecentResult, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make(map[uint]string, len(s.data.Quizzes))
	for _, q := range s.data.Quizzes {
		titles[q.ID] = q.Title
	}

	var own []*resultRecord
	for _, rec := range s.data.Results {
		if rec.UserID == userID {
			own = append(own, rec)
		}
	}
	sort.Slice(own, func(i, j int) bool {
		if !own[i].CompletedAt.Equal(own[j].CompletedAt) {
			return own[i].CompletedAt.After(own[j].CompletedAt)
		}
		return own[i].ID > own[j].ID
	})
	if limit > 0 && len(own) > limit {
		own = own[:limit]
	}

	recent := make([]repository.RecentResult, 0, len(own))
	for _, rec := range own {
		recent = append(recent, repository.RecentResult{
			QuizTitle:   titles[rec.QuizID],
			Score:       rec.Score,
			CompletedAt: rec.CompletedAt,
		})
	}
	return recent, nil
}

// GetOverview возвращает сводную статистику по всем отправкам
func (r *ResultRepo) GetOverview() (*repository.OverviewStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := &repository.OverviewStats{}
	users := make(map[uint]struct{})
	totalScore := 0

	type agg struct {
		count int
		score int
	}
	byCategory := make(map[string]*agg)

	for _, rec := range s.data.Results {
		overview.TotalTests++
		totalScore += rec.Score
		users[rec.UserID] = struct{}{}

		a := byCategory[rec.Category]
		if a == nil {
			a = &agg{}
			byCategory[rec.Category] = a
		}
		a.count++
		a.score += rec.Score
	}

	overview.TotalUsers = len(users)
	overview.AverageScore = entity.RoundAverage(totalScore, overview.TotalTests)

	for category, a := range byCategory {
		overview.Categories = append(overview.Categories, repository.CategoryStat{
			Category:     category,
			Count:        a.count,
			AverageScore: entity.RoundAverage(a.score, a.count),
		})
	}
	sort.Slice(overview.Categories, func(i, j int) bool {
		if overview.Categories[i].Count != overview.Categories[j].Count {
			return overview.Categories[i].Count > overview.Categories[j].Count
		}
		return overview.Categories[i].Category < overview.Categories[j].Category
	})

	return overview, nil
}

// ListAll возвращает все результаты, новые первыми
func (r *ResultRepo) ListAll() ([]entity.TestResult, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]entity.TestResult, 0, len(s.data.Results))
	for _, rec := range s.data.Results {
		results = append(results, *rec)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.After(results[j].CompletedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}
