package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickCollector потокобезопасно накапливает события таймера
type tickCollector struct {
	mu      sync.Mutex
	ticks   []Tick
	expires int
}

func (c *tickCollector) onTick(t Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, t)
}

func (c *tickCollector) onExpire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires++
}

func (c *tickCollector) snapshot() ([]Tick, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticks := make([]Tick, len(c.ticks))
	copy(ticks, c.ticks)
	return ticks, c.expires
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("условие не выполнилось за отведенное время")
}

func TestTimerCountsDownAndExpiresOnce(t *testing.T) {
	// Arrange
	collector := &tickCollector{}
	timer := NewTimer(3, collector.onTick, collector.onExpire)
	timer.interval = 5 * time.Millisecond

	// Act
	timer.Start()
	waitFor(t, func() bool {
		_, expires := collector.snapshot()
		return expires == 1
	})
	// Даем таймеру шанс ошибиться лишним тиком после истечения
	time.Sleep(30 * time.Millisecond)

	// Assert
	ticks, expires := collector.snapshot()
	assert.Equal(t, 1, expires, "истечение должно сработать ровно один раз")
	require.Len(t, ticks, 3, "после истечения тиков быть не должно")
	assert.Equal(t, 2, ticks[0].RemainingSeconds)
	assert.Equal(t, 1, ticks[1].RemainingSeconds)
	assert.Equal(t, 0, ticks[2].RemainingSeconds)
	assert.True(t, ticks[2].Expired)
	assert.Equal(t, 0, timer.Remaining(), "остаток не опускается ниже нуля")
}

func TestTimerTickPercent(t *testing.T) {
	// Arrange
	collector := &tickCollector{}
	timer := NewTimer(4, collector.onTick, collector.onExpire)
	timer.interval = 5 * time.Millisecond

	// Act
	timer.Start()
	waitFor(t, func() bool {
		ticks, _ := collector.snapshot()
		return len(ticks) >= 2
	})
	timer.Stop()

	// Assert
	ticks, _ := collector.snapshot()
	assert.InDelta(t, 75.0, ticks[0].PercentRemaining, 0.01)
	assert.InDelta(t, 50.0, ticks[1].PercentRemaining, 0.01)
}

func TestTimerStopIsIdempotent(t *testing.T) {
	// Arrange
	collector := &tickCollector{}
	timer := NewTimer(100, collector.onTick, collector.onExpire)
	timer.interval = 5 * time.Millisecond
	timer.Start()

	// Act — повторная остановка не должна паниковать
	timer.Stop()
	timer.Stop()
	remaining := timer.Remaining()
	time.Sleep(30 * time.Millisecond)

	// Assert — после остановки тиков и истечения нет
	ticksAfter, expires := collector.snapshot()
	assert.Equal(t, 0, expires)
	assert.Equal(t, remaining, timer.Remaining())
	for _, tick := range ticksAfter {
		assert.GreaterOrEqual(t, tick.RemainingSeconds, remaining)
	}
}

func TestTimerStopFromExpireCallback(t *testing.T) {
	// Остановка из обработчика истечения — безопасный no-op
	var timer *Timer
	done := make(chan struct{})
	timer = NewTimer(1, nil, func() {
		timer.Stop()
		close(done)
	})
	timer.interval = 5 * time.Millisecond
	timer.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("истечение не сработало")
	}
	assert.Equal(t, 0, timer.Remaining())
}
