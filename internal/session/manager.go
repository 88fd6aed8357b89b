package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// Отправленные сессии хранятся еще некоторое время, чтобы клиент успел
// забрать результат, после чего вычищаются фоновой уборкой.
const (
	sweepInterval     = time.Minute
	finishedRetention = 10 * time.Minute
)

// Manager владеет активными сессиями прохождения тестов.
// Сессии эфемерны: живут в памяти процесса и не переживают перезапуск.
type Manager struct {
	scorer Scorer
	grace  time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager создает новый менеджер сессий и запускает фоновую уборку.
// grace — пауза между истечением таймера и автоотправкой.
func NewManager(scorer Scorer, grace time.Duration) *Manager {
	m := &Manager{
		scorer:   scorer,
		grace:    grace,
		sessions: make(map[string]*Session),
	}
	go m.janitor()
	return m
}

// janitor периодически удаляет давно отправленные сессии,
// чтобы карта не росла на протяжении жизни процесса
func (m *Manager) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		m.sweep(time.Now().Add(-finishedRetention))
	}
}

// sweep удаляет отправленные сессии, завершившиеся раньше cutoff
func (m *Manager) sweep(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.finishedBefore(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[SessionManager] Убрано завершенных сессий: %d, осталось активных: %d",
			removed, len(m.sessions))
	}
}

// Start создает и запускает новую сессию для пользователя
func (m *Manager) Start(userID uint, quiz *entity.Quiz) *Session {
	s := newSession(uuid.NewString(), userID, quiz, m.scorer, m.grace)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get возвращает сессию по идентификатору.
// Доступ разрешен только владельцу: для чужой сессии — ErrForbidden.
func (m *Manager) Get(id string, userID uint) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if s.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return s, nil
}

// Remove удаляет сессию, остановив ее таймер
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.timer.Stop()
	}
}

// Count возвращает число активных сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
