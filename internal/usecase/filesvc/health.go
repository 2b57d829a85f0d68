package filesvc

import (
	"context"
	"time"
)

const probeTimeout = 2 * time.Second

// StoreHealth: результат проверки одного стоража.
type StoreHealth struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthAdapter определяет готовность стораджей.
type HealthAdapter struct {
	Timeout time.Duration
}

// NewHealthAdapter инициализирует адаптер доступности.
func NewHealthAdapter(timeout time.Duration) *HealthAdapter {
	if timeout <= 0 {
		timeout = probeTimeout
	}
	return &HealthAdapter{Timeout: timeout}
}

// Check проверяет все стораджи реестра. Стораджи без Probe считаются готовыми.
func (a *HealthAdapter) Check(ctx context.Context, registry *Registry) []StoreHealth {
	stores := registry.Stores()
	result := make([]StoreHealth, 0, len(stores))
	for _, st := range stores {
		h := StoreHealth{Name: st.Name(), Path: st.GetPath(), OK: true}
		if p, ok := st.(Prober); ok {
			probeCtx, cancel := context.WithTimeout(ctx, a.Timeout)
			if err := p.Probe(probeCtx); err != nil {
				h.OK = false
				h.Error = err.Error()
			}
			cancel()
		}
		result = append(result, h)
	}

	return result
}
