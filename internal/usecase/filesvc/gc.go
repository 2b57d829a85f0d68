package filesvc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepOnce проходит по всем стораджам, умеющим чистить сирот, и возвращает число удалённых файлов.
func SweepOnce(ctx context.Context, registry *Registry, ttl time.Duration, logger *zap.Logger) int {
	total := 0
	for _, st := range registry.Stores() {
		sw, ok := st.(Sweeper)
		if !ok {
			continue
		}

		n, err := sw.SweepOrphans(ctx, ttl)
		if err != nil {
			logger.Warn("gc: sweep failed", zap.String("store", st.Name()), zap.Error(err))
		}
		if n > 0 {
			logger.Info("gc: orphans removed", zap.String("store", st.Name()), zap.Int("files", n))
		}
		total += n
	}

	return total
}

// StartGC стартует периодическую очистку сирот; возвращает функцию остановки.
func StartGC(registry *Registry, ttl, every time.Duration, logger *zap.Logger) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(every)
	var once sync.Once
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				SweepOnce(ctx, registry, ttl, logger)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		once.Do(cancel)
	}
}
