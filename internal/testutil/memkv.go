package testutil

import (
	"context"
	"sync"
)

// MemKV is an in-memory persist.KV for tests.
//
// It records every successful Put and can be switched into a failing mode
// to exercise best-effort write paths.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	puts   int
	putErr error
	getErr error
}

// NewMemKV creates an empty store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

// Get implements persist.KV.
func (m *MemKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements persist.KV.
func (m *MemKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Seed stores raw bytes under key without counting a Put.
// Use it to plant malformed values.
func (m *MemKV) Seed(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(value)
}

// Raw returns the stored bytes as a string.
func (m *MemKV) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return string(v), ok
}

// Puts returns the number of successful Put calls.
func (m *MemKV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// FailPuts makes every following Put return err. Pass nil to recover.
func (m *MemKV) FailPuts(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// FailGets makes every following Get return err. Pass nil to recover.
func (m *MemKV) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}
