package session

import (
	"sync"
	"time"
)

// Tick — одно событие обратного отсчета для отображения
type Tick struct {
	RemainingSeconds int     `json:"remaining_seconds"`
	PercentRemaining float64 `json:"percent_remaining"`
	Expired          bool    `json:"expired"`
}

// Timer ведет посекундный обратный отсчет.
// Колбэк истечения вызывается ровно один раз; после Stop или истечения
// тиков больше не бывает. Остаток никогда не опускается ниже нуля.
type Timer struct {
	total    int
	interval time.Duration
	onTick   func(Tick)
	onExpire func()

	mu        sync.Mutex
	remaining int
	stopped   bool
	done      chan struct{}
}

// NewTimer создает таймер на totalSeconds секунд.
// onTick вызывается на каждом тике, onExpire — один раз при достижении нуля.
func NewTimer(totalSeconds int, onTick func(Tick), onExpire func()) *Timer {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return &Timer{
		total:     totalSeconds,
		interval:  time.Second,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: totalSeconds,
		done:      make(chan struct{}),
	}
}

// Start запускает отсчет в отдельной горутине
func (t *Timer) Start() {
	go t.run()
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			tick, expired, fire := t.decrement()
			if !fire {
				return
			}
			if t.onTick != nil {
				t.onTick(tick)
			}
			if expired {
				if t.onExpire != nil {
					t.onExpire()
				}
				return
			}
		}
	}
}

// decrement уменьшает остаток на секунду.
// Возвращает событие тика, признак истечения и признак того,
// что тик вообще должен быть доставлен (таймер еще не остановлен).
func (t *Timer) decrement() (Tick, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return Tick{}, false, false
	}

	if t.remaining > 0 {
		t.remaining--
	}
	expired := t.remaining == 0
	if expired {
		// Помечаем остановленным до вызова колбэков, чтобы Stop из
		// обработчика истечения был безопасным no-op
		t.stopped = true
	}

	return Tick{
		RemainingSeconds: t.remaining,
		PercentRemaining: t.percentLocked(),
		Expired:          expired,
	}, expired, true
}

func (t *Timer) percentLocked() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.remaining) / float64(t.total) * 100
}

// Stop останавливает отсчет; повторные вызовы безопасны
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.done)
}

// Remaining возвращает текущий остаток в секундах
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Snapshot возвращает текущее состояние отсчета как событие тика
func (t *Timer) Snapshot() Tick {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Tick{
		RemainingSeconds: t.remaining,
		PercentRemaining: t.percentLocked(),
		Expired:          t.stopped && t.remaining == 0,
	}
}
