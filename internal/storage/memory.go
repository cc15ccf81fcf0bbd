package storage

import (
	"sync"

	"outlay/internal/session"
)

// Memory is an in-process session.Store for tests and throwaway runs.
type Memory struct {
	mu    sync.Mutex
	creds session.Credentials
	saved bool
}

var _ session.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (session.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return session.Credentials{}, nil
	}
	return m.creds, nil
}

func (m *Memory) Save(creds session.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	m.saved = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = session.Credentials{}
	m.saved = false
	return nil
}
