package out

import (
	"context"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	historyout "fieldaudit/internal/modules/history/port/out"
)

// MemoryBackend keeps everything in process; contents are lost on exit.
type MemoryBackend struct {
	cache *cache.Cache
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{cache: cache.New(cache.NoExpiration, 0)}
}

var _ historyout.Backend = (*MemoryBackend)(nil)

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := m.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	out := []string{}
	for key := range m.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}
