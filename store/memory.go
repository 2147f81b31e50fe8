package store

import (
	"context"
	"maps"
	"sync"

	"github.com/stsysd/niwa/model"
)

// MemoryStore はメモリ上に保持するSnapshotStoreの実装です。テストやお試し起動で使用します。
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	saves  int
}

// NewMemoryStore は空のMemoryStoreを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// LoadSnapshot は保存されているすべてのキーを取得します。
func (m *MemoryStore) LoadSnapshot(_ context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.values) == 0 {
		return nil, model.ErrSnapshotNotFound
	}
	return maps.Clone(m.values), nil
}

// LoadKey は指定されたキーの値を取得します。
func (m *MemoryStore) LoadKey(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return v, nil
}

// SaveSnapshot はすべてのキーを書き込みます。
func (m *MemoryStore) SaveSnapshot(_ context.Context, snapshot map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range snapshot {
		if v == nil {
			delete(m.values, k)
			continue
		}
		m.values[k] = append([]byte(nil), v...)
	}
	m.saves++
	return nil
}

// DeleteSnapshot は保存されているすべてのキーを削除します。
func (m *MemoryStore) DeleteSnapshot(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.values) == 0 {
		return model.ErrSnapshotNotFound
	}
	m.values = make(map[string][]byte)
	return nil
}

// Saves は SaveSnapshot が呼ばれた回数を返します。
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close は何もしません。
func (m *MemoryStore) Close() error {
	return nil
}

var _ SnapshotStore = (*MemoryStore)(nil)
