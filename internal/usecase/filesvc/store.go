package filesvc

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
)

// Store: бэкенд, отвечающий за байты загруженных файлов. Путь и расширение
// всегда берутся из метаданных; сами записи сторадж не создаёт и не удаляет.
type Store interface {
	Name() string
	GetPath() string
	Record(ctx context.Context, fileID string) (models.File, error)
	ResolvePath(ctx context.Context, fileID string) (string, error)
	GetFileURL(ctx context.Context, fileID string) (string, error)
	Delete(ctx context.Context, fileID string) error
	GetReadStream(ctx context.Context, fileID string) (io.ReadCloser, error)
	GetWriteStream(ctx context.Context, fileID string) (io.WriteCloser, error)
}

// Prober умеет проверять доступность своего хранилища.
type Prober interface {
	Probe(ctx context.Context) error
}

// Sweeper умеет убирать файлы без метаданных.
type Sweeper interface {
	SweepOrphans(ctx context.Context, ttl time.Duration) (int, error)
}

// DeleteQuiet удаляет файл в режиме best effort: ошибка только логируется.
func DeleteQuiet(ctx context.Context, s Store, fileID string, logger *zap.Logger) {
	if err := s.Delete(ctx, fileID); err != nil {
		if logger == nil {
			return
		}
		lvl := logger.Error
		if errors.Is(err, models.ErrNotFound) {
			lvl = logger.Warn
		}
		lvl("delete failed", zap.String("store", s.Name()), zap.String("file_id", fileID), zap.Error(err))
	}
}
