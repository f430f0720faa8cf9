package preset

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	items map[string]Preset
	mutex sync.RWMutex
}

// NewMemory builds an in-memory preset store. Presets live until removed or
// the process exits.
func NewMemory() Store {
	return &memoryStore{
		items: make(map[string]Preset),
	}
}

func (s *memoryStore) Save(_ context.Context, p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name required")
	}
	now := time.Now()
	s.mutex.Lock()
	if existing, ok := s.items[p.Name]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.items[p.Name] = p
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Get(_ context.Context, name string) (Preset, error) {
	s.mutex.RLock()
	p, ok := s.items[name]
	s.mutex.RUnlock()
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

func (s *memoryStore) List(_ context.Context) ([]Preset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]Preset, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) Remove(_ context.Context, name string) error {
	s.mutex.Lock()
	delete(s.items, name)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(_ context.Context) error {
	return nil
}
