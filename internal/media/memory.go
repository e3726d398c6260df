package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"snapgram-backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps uploaded images in process memory.
// It is used by tests and by local runs without a bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

// NewMemoryStore creates an in-memory media store serving URLs under baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Upload classifies and keeps data under a fresh id
func (m *MemoryStore) Upload(_ context.Context, _ string, data []byte) (*models.Image, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.New().String(), format.Extension)

	m.mu.Lock()
	m.objects[id] = append([]byte(nil), data...)
	m.mu.Unlock()

	return &models.Image{PublicID: id, URL: m.baseURL + "/" + id}, nil
}

// Delete forgets the image stored under publicID
func (m *MemoryStore) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[publicID]; !ok {
		return fmt.Errorf("image %s not found", publicID)
	}
	delete(m.objects, publicID)
	return nil
}

// Has reports whether publicID is currently stored
func (m *MemoryStore) Has(publicID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[publicID]
	return ok
}

// Len returns the number of stored images
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ServeHTTP serves a stored image by the request path
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/")

	m.mu.RLock()
	data, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	if f, err := Detect(data); err == nil {
		w.Header().Set("Content-Type", f.ContentType)
	}
	w.Write(data)
}

var _ Store = (*MemoryStore)(nil)
