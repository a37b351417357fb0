package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore 进程内存储，数据以 JSON 字节保存以保持与持久化后端一致的快照语义
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load 读取集合
func (s *MemoryStore) Load(ctx context.Context, collection string, dest interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	raw, ok := s.data[collection]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, malformed(collection, err)
	}
	return true, nil
}

// Save 写入集合
func (s *MemoryStore) Save(ctx context.Context, collection string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[collection] = payload
	s.mu.Unlock()
	return nil
}

// Mutate 在全局锁内完成读取-修改-写回
func (s *MemoryStore) Mutate(ctx context.Context, collection string, dest interface{}, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := s.data[collection]; ok {
		if err := json.Unmarshal(raw, dest); err != nil {
			return malformed(collection, err)
		}
	}
	if err := fn(); err != nil {
		return err
	}
	payload, err := json.Marshal(dest)
	if err != nil {
		return err
	}
	s.data[collection] = payload
	return nil
}

// PutRaw 直接写入原始字节（用于测试损坏数据）
func (s *MemoryStore) PutRaw(collection string, raw []byte) {
	s.mu.Lock()
	s.data[collection] = raw
	s.mu.Unlock()
}
