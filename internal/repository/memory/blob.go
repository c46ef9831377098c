package memory

import (
	"context"
	"sync"
)

type blob struct {
	data        []byte
	contentType string
}

// BlobStore 内存对象存储
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]blob
}

func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string]blob)}
}

func (b *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.objects[key] = blob{data: cp, contentType: contentType}
	return nil
}

func (b *BlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *BlobStore) PublicURL(key string) string {
	return "memory://" + key
}

// Get 返回对象内容与类型，测试断言使用
func (b *BlobStore) Get(key string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.objects[key]
	return o.data, o.contentType, ok
}

// Len 当前对象数量
func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
