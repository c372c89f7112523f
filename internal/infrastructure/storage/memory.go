package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventi/backend/internal/domain/shared"
)

// MemoryObjectStorage keeps objects in process memory.
// It backs tests and local runs without an S3 endpoint.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time

	// FailWith, when set, is returned by every operation
	FailWith error
}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

var _ shared.ObjectStorage = (*MemoryObjectStorage)(nil)

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Put stores a copy of body under key
func (m *MemoryObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType, lastModified: m.now()}
	return nil
}

// Get returns a reader over the stored bytes
func (m *MemoryObjectStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, shared.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes key; deleting a missing key succeeds like it does on S3
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists reports whether key is stored
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// List returns the objects under prefix in key order
func (m *MemoryObjectStorage) List(_ context.Context, prefix string) ([]shared.ObjectInfo, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var objects []shared.ObjectInfo
	for key, obj := range m.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, shared.ObjectInfo{
				Key:          key,
				Size:         int64(len(obj.data)),
				LastModified: obj.lastModified,
			})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// SetModTime overrides the modification time of a stored object
func (m *MemoryObjectStorage) SetModTime(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		obj.lastModified = t
		m.objects[key] = obj
	}
}

// ContentType returns the content type an object was stored with
func (m *MemoryObjectStorage) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}
