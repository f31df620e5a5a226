package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local Cache. Expired entries are dropped lazily on Get.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	if time.Now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	return item.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}
