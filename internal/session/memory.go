package session

import (
	"context"
	"sync"
)

// Memory keeps the slots in process. Used by tests and one-shot commands.
type Memory struct {
	mu  sync.Mutex
	rec Record
	err error
}

func NewMemory() *Memory {
	return &Memory{}
}

// Seed replaces the stored slots without going through a Store.
func (m *Memory) Seed(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = r
}

// FailWith makes every later call return err.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) Snapshot() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

func (m *Memory) Load(context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.err
}

func (m *Memory) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rec = r
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rec = Record{}
	return nil
}
