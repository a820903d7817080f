// Package mediastore owns the binary blobs behind story media for
// exactly as long as their stories live, mirroring the object-URL
// lifetime of a browser upload. Handles are released by the story
// store at eviction.
package mediastore

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

type Store interface {
	// Put copies the asset bytes in and returns a releasable handle
	// whose URL the API can serve.
	Put(asset domain.RawAsset) domain.MediaHandle

	// Open returns the blob bytes and content type for a handle id.
	Open(id string) ([]byte, string, bool)

	Len() int
}

type blob struct {
	data        []byte
	contentType string
}

type Memory struct {
	mu     sync.Mutex
	blobs  map[string]blob
	logger logger.Logger
}

func NewMemory(log logger.Logger) *Memory {
	return &Memory{
		blobs:  make(map[string]blob),
		logger: log.WithComponent("MediaStore"),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Put(asset domain.RawAsset) domain.MediaHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.blobs[id] = blob{
		data:        append([]byte(nil), asset.Data...),
		contentType: asset.ContentType,
	}
	m.logger.Debug("Blob stored", "id", id, "bytes", len(asset.Data))
	return &handle{store: m, id: id}
}

func (m *Memory) Open(id string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[id]
	if !ok {
		return nil, "", false
	}
	return b.data, b.contentType, true
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

func (m *Memory) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, id)
	m.logger.Debug("Blob released", "id", id)
}

type handle struct {
	store *Memory
	id    string
	once  sync.Once
}

func (h *handle) URL() string {
	return "/media/" + h.id
}

// Close releases the backing blob. Closing twice is safe.
func (h *handle) Close() error {
	h.once.Do(func() { h.store.release(h.id) })
	return nil
}
