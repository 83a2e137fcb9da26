package slot

import (
	"context"
	"sync"

	"github.com/thynkpro/portal/internal/core/ports"
)

// Memory is a process-local slot. It does not survive restarts and is
// meant for tests and throwaway runs.
type Memory struct {
	mu   sync.Mutex
	data []byte
	ok   bool
}

var _ ports.DurableSlot = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *Memory) Set(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.ok = true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.ok = false
	return nil
}
