package media

import (
	"context"
	"sort"
	"strings"
	"sync"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore is a process-local media store for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	objects    map[string]entity.ImageFile
	namespaces map[string]bool
	baseURL    string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://media"
	}
	return &MemoryStore{
		objects:    make(map[string]entity.ImageFile),
		namespaces: make(map[string]bool),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (m *MemoryStore) Upload(ctx context.Context, file entity.ImageFile, namespace string) (entity.Image, error) {
	if err := ctx.Err(); err != nil {
		return entity.Image{}, err
	}
	key := ObjectKey(namespace, uuid.NewString(), file.Extension)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = file
	m.namespaces[strings.TrimSuffix(namespace, "/")] = true
	return entity.Image{StorageID: key, URL: m.baseURL + "/" + key}, nil
}

// DeleteResources ignores keys that do not exist.
func (m *MemoryStore) DeleteResources(ctx context.Context, storageIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range storageIDs {
		delete(m.objects, id)
	}
	return nil
}

func (m *MemoryStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteNamespace(ctx context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.namespaces, strings.TrimSuffix(namespace, "/"))
	return nil
}

func (m *MemoryStore) Has(storageID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageID]
	return ok
}

func (m *MemoryStore) HasNamespace(namespace string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namespaces[strings.TrimSuffix(namespace, "/")]
}

// Keys returns every stored key in lexical order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
