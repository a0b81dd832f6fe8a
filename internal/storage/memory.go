package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	staged    map[string][]byte
	published map[string][]byte
	requests  []WriteRequest
	done      bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		staged:    map[string][]byte{},
		published: map[string][]byte{},
	}
}

// Seed places an artifact directly into the published tree.
func (m *MemoryStore) Seed(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[normalizeKey(path)] = append([]byte(nil), data...)
}

// Published returns a published artifact and whether it exists.
func (m *MemoryStore) Published(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.published[normalizeKey(path)]
	return data, ok
}

// PublishedPaths lists published artifact paths in no particular order.
func (m *MemoryStore) PublishedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.published))
	for key := range m.published {
		paths = append(paths, key)
	}
	return paths
}

// Requests returns every write request seen so far.
func (m *MemoryStore) Requests() []WriteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteRequest(nil), m.requests...)
}

func (m *MemoryStore) EnsureDir(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (m *MemoryStore) WriteFile(ctx context.Context, req WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return fmt.Errorf("storage: write requires content reader")
	}
	key := normalizeKey(req.Path)
	if key == "" {
		return fmt.Errorf("storage: write requires path")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged[key] = data
	m.requests = append(m.requests, req)
	return nil
}

func (m *MemoryStore) ReadPublished(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.published[normalizeKey(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPublished, path)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) CopyPublished(ctx context.Context, path string) error {
	data, err := m.ReadPublished(ctx, path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged[normalizeKey(path)] = data
	return nil
}

func (m *MemoryStore) Publish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("storage: staging area already finalized")
	}
	m.published = m.staged
	m.staged = map[string][]byte{}
	m.done = true
	return nil
}

func (m *MemoryStore) Discard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = map[string][]byte{}
	m.done = true
	return nil
}

// Clean drops the published tree.
func (m *MemoryStore) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = map[string][]byte{}
	return nil
}

func normalizeKey(p string) string {
	key := strings.Trim(path.Clean(strings.TrimSpace(p)), "/")
	if key == "." {
		return ""
	}
	return key
}
