package catalogclient

import (
	"sync"
	"time"
)

// SearchDebouncer откладывает поиск до паузы в наборе текста
// Каждый Trigger сбрасывает таймер: выполняется только последний запрос
type SearchDebouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewSearchDebouncer создает debouncer с заданной паузой
func NewSearchDebouncer(delay time.Duration) *SearchDebouncer {
	return &SearchDebouncer{delay: delay}
}

// Trigger планирует выполнение fn после паузы, отменяя предыдущий вызов
func (d *SearchDebouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop отменяет отложенный вызов, если он еще не выполнился
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
