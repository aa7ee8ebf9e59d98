package settingsrepo

import (
	"context"
	"sync"

	"github.com/Masudcse27/bs-library-management-system/model"
)

// Memory keeps the settings row in process.
type Memory struct {
	mu sync.RWMutex
	s  *model.Settings
}

func NewMemory(initial *model.Settings) *Memory { return &Memory{s: initial} }

func (m *Memory) Get(context.Context) (model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.s == nil {
		return model.Settings{}, ErrNoRow
	}
	return *m.s, nil
}

func (m *Memory) Save(_ context.Context, s model.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}
