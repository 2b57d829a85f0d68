package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/internal/repo/meta"
)

const (
	memoryScheme = "memory://"
	sqliteScheme = "sqlite://"
)

// Store: хранилище метаданных, которое можно закрыть при остановке.
type Store interface {
	Get(ctx context.Context, id string) (models.File, error)
	Save(ctx context.Context, file models.File) error
	Delete(ctx context.Context, id string) error
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*meta.PGStore)(nil)
	_ Store = (*meta.SQLiteStore)(nil)
)

// Open выбирает реализацию по схеме DSN: memory://, postgres://, sqlite://path.
// Для SQLite миграции применяются сразу: база встроенная и живёт в одном процессе.
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "" || strings.HasPrefix(dsn, memoryScheme):
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, sqliteScheme):
		st, err := meta.NewSQLiteStore(ctx, strings.TrimPrefix(dsn, sqliteScheme))
		if err != nil {
			return nil, err
		}
		if err = migrate(ctx, st.DB(), "sqlite3"); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return st, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return meta.NewPGStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: unsupported meta dsn %q", models.ErrInvalidConfig, dsn)
	}
}
