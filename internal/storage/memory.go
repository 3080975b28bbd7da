package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory хранилище состояния в памяти процесса. Используется, когда
// строка подключения к PostgreSQL не задана, и в тестах.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemory создаёт пустое хранилище.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string][]byte)}
}

// Get возвращает копию значения или ErrNotFound.
func (m *Memory) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[namespace][key]
	if !ok {
		return nil, fmt.Errorf("storage.Memory.Get: %w", ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Put сохраняет копию значения.
func (m *Memory) Put(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

// Delete удаляет значение.
func (m *Memory) Delete(_ context.Context, namespace, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[namespace][key]; !ok {
		return 0, nil
	}
	delete(m.data[namespace], key)
	return 1, nil
}

// List возвращает значения с ключами, начинающимися с prefix, в порядке ключей.
func (m *Memory) List(_ context.Context, namespace, prefix string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data[namespace]))
	for k := range m.data[namespace] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	result := make([][]byte, 0, len(keys))
	for _, k := range keys {
		result = append(result, append([]byte(nil), m.data[namespace][k]...))
	}
	return result, nil
}
