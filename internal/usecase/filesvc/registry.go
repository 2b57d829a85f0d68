package filesvc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sir_venger/ufs_lite/internal/models"
)

// Registry сопоставляет имя стоража с его реализацией. Собирается один раз при старте
// и передаётся в HTTP-слой явно.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

// NewRegistry создаёт реестр и регистрирует переданные стораджи.
func NewRegistry(stores ...Store) (*Registry, error) {
	r := &Registry{stores: make(map[string]Store, len(stores))}
	for _, s := range stores {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register добавляет сторадж; имя должно быть уникальным.
func (r *Registry) Register(s Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stores[s.Name()]; exists {
		return fmt.Errorf("%w: %s", models.ErrStoreExists, s.Name())
	}
	r.stores[s.Name()] = s
	return nil
}

// Get возвращает сторадж по имени.
func (r *Registry) Get(name string) (Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[name]
	return s, ok
}

// Names возвращает отсортированный список имён.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stores возвращает снимок зарегистрированных стораджей в порядке имён.
func (r *Registry) Stores() []Store {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Store, 0, len(names))
	for _, name := range names {
		if s, ok := r.stores[name]; ok {
			out = append(out, s)
		}
	}
	return out
}
