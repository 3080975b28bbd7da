// Package livelog имитирует живые логи ботов: ограниченный буфер строк и
// генератор, дописывающий случайную строку по таймеру.
package livelog

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultCapacity размер буфера по умолчанию.
const DefaultCapacity = 50

// DefaultInterval период генерации по умолчанию.
const DefaultInterval = 3 * time.Second

// ErrUnknownBot для бота нет буфера логов.
var ErrUnknownBot = errors.New("no logs for bot")

// Entry одна строка лога.
type Entry struct {
	At      time.Time `json:"at"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Buffer кольцевой буфер последних строк.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewBuffer создает буфер на capacity строк.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{entries: make([]Entry, capacity)}
}

// Append добавляет строку, вытесняя самую старую при переполнении.
func (b *Buffer) Append(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Len количество строк в буфере.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Snapshot копия строк от старых к новым.
func (b *Buffer) Snapshot() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.full {
		out := make([]Entry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

var canned = []Entry{
	{Level: "info", Message: "Получено новое сообщение от пользователя"},
	{Level: "info", Message: "Отправлен ответ пользователю"},
	{Level: "info", Message: "Новый подписчик присоединился к каналу"},
	{Level: "info", Message: "Рассылка доставлена 120 получателям"},
	{Level: "info", Message: "Команда /start обработана"},
	{Level: "warn", Message: "Превышен лимит запросов Telegram API, повтор через 5 секунд"},
	{Level: "info", Message: "Запланированный пост опубликован"},
	{Level: "error", Message: "Не удалось доставить сообщение: пользователь заблокировал бота"},
	{Level: "info", Message: "Webhook обработан за 42 мс"},
	{Level: "info", Message: "Платёж подтверждён"},
}

// Simulator генерирует строки логов для набора ботов.
type Simulator struct {
	buffers  map[string]*Buffer
	interval time.Duration
	now      func() time.Time
	pick     func(n int) int
	log      *slog.Logger
}

// NewSimulator создает буферы для каждого бота из botIDs.
func NewSimulator(botIDs []string, capacity int, interval time.Duration, log *slog.Logger) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	buffers := make(map[string]*Buffer, len(botIDs))
	for _, id := range botIDs {
		buffers[id] = NewBuffer(capacity)
	}
	return &Simulator{
		buffers:  buffers,
		interval: interval,
		now:      time.Now,
		pick:     rand.IntN,
		log:      log,
	}
}

// Tick дописывает по одной случайной строке каждому боту.
func (s *Simulator) Tick() {
	now := s.now().UTC()
	for _, b := range s.buffers {
		e := canned[s.pick(len(canned))]
		e.At = now
		b.Append(e)
	}
}

// Run генерирует строки до отмены ctx. Блокирует вызывающего.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Info("live log simulator started", slog.Int("bots", len(s.buffers)), slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("live log simulator stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Logs возвращает текущие строки бота.
func (s *Simulator) Logs(botID string) ([]Entry, error) {
	b, ok := s.buffers[botID]
	if !ok {
		return nil, ErrUnknownBot
	}
	return b.Snapshot(), nil
}
