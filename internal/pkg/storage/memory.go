package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory keeps objects in a map. It backs local runs without an object store.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	base    string
}

func NewMemory(publicURL string) *Memory {
	return &Memory{objects: make(map[string][]byte), base: baseURL(publicURL, "memory://uploads")}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return Object{}, err
	}

	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()
	return Object{Key: key, URL: m.URL(key), Size: n}, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

func (m *Memory) URL(key string) string { return joinURL(m.base, key) }

func (m *Memory) Close() error { return nil }
