// Package gamification ведет производный игровой прогресс (XP, уровни,
// достижения, серии дней). Прогресс вычисляется из результатов отправок,
// хранится в локальном JSON-файле и никак не влияет на подсчет баллов:
// трекер — подписчик на отправки, а не участник транзакции.
package gamification

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
)

// XPPerLevel — очки опыта на один уровень
const XPPerLevel = 250

// Идентификаторы достижений
const (
	AchievementFirstTest    = "first_test"
	AchievementPerfectScore = "perfect_score"
	AchievementTenTests     = "ten_tests"
	AchievementStreakThree  = "streak_3"
)

const dateLayout = "2006-01-02"

// Progress — игровой прогресс одного пользователя
type Progress struct {
	XP           int      `json:"xp"`
	Level        int      `json:"level"`
	TestsCounted int      `json:"tests_counted"`
	StreakDays   int      `json:"streak_days"`
	LastActivity string   `json:"last_activity"`
	Achievements []string `json:"achievements"`
}

func (p *Progress) hasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Tracker хранит прогресс всех пользователей в одном JSON-файле
type Tracker struct {
	filename string
	now      func() time.Time

	mu    sync.Mutex
	users map[uint]*Progress
}

// NewTracker открывает трекер, загружая сохраненный прогресс
func NewTracker(filename string) (*Tracker, error) {
	t := &Tracker{
		filename: filename,
		now:      time.Now,
		users:    make(map[uint]*Progress),
	}

	raw, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &t.users); err != nil {
			return nil, err
		}
	}
	log.Printf("[Gamification] Загружен прогресс %d пользователей", len(t.users))
	return t, nil
}

// OnSubmission реализует service.SubmissionSubscriber.
// Любая ошибка здесь только логируется: игровой прогресс вторичен
// и не должен влиять на судьбу отправки.
func (t *Tracker) OnSubmission(user *entity.User, result *entity.TestResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.users[user.ID]
	if p == nil {
		p = &Progress{Level: 1}
		t.users[user.ID] = p
	}

	p.XP += result.Score
	p.Level = p.XP/XPPerLevel + 1
	p.TestsCounted++
	t.advanceStreak(p, result.CompletedAt)
	t.grantAchievements(p, result)

	if err := t.persistLocked(); err != nil {
		log.Printf("[Gamification] Не удалось сохранить прогресс пользователя %d: %v", user.ID, err)
	}
}

// advanceStreak продлевает серию при активности в соседние дни
func (t *Tracker) advanceStreak(p *Progress, completedAt time.Time) {
	if completedAt.IsZero() {
		completedAt = t.now()
	}
	today := completedAt.Format(dateLayout)
	yesterday := completedAt.AddDate(0, 0, -1).Format(dateLayout)

	switch p.LastActivity {
	case today:
		// Уже считали сегодня
	case yesterday:
		p.StreakDays++
	default:
		p.StreakDays = 1
	}
	p.LastActivity = today
}

func (t *Tracker) grantAchievements(p *Progress, result *entity.TestResult) {
	grant := func(id string) {
		if !p.hasAchievement(id) {
			p.Achievements = append(p.Achievements, id)
			log.Printf("[Gamification] Достижение %q открыто", id)
		}
	}

	if p.TestsCounted >= 1 {
		grant(AchievementFirstTest)
	}
	if result.Score == 100 {
		grant(AchievementPerfectScore)
	}
	if p.TestsCounted >= 10 {
		grant(AchievementTenTests)
	}
	if p.StreakDays >= 3 {
		grant(AchievementStreakThree)
	}
}

// Progress возвращает копию прогресса пользователя
func (t *Tracker) Progress(userID uint) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.users[userID]
	if p == nil {
		return Progress{Level: 1}, false
	}
	cp := *p
	cp.Achievements = append([]string(nil), p.Achievements...)
	return cp, true
}

func (t *Tracker) persistLocked() error {
	data, err := json.MarshalIndent(t.users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filename, data, 0644)
}
