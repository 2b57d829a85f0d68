package filesvc

import (
	"context"
	"fmt"
	"io"

	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
)

type (
	// MetaStorage хранилище метаданных файлов
	MetaStorage interface {
		Get(ctx context.Context, id string) (models.File, error)
		Save(ctx context.Context, file models.File) error
		Delete(ctx context.Context, id string) error
	}

	// Service объединяет операции загрузки, удаления и выдачи ссылок.
	Service interface {
		Upload(ctx context.Context, storeName string, r io.Reader, name, contentType string) (models.UploadResult, error)
		Delete(ctx context.Context, storeName, fileID string) error
		DeleteMany(ctx context.Context, storeName string, fileIDs []string) error
		FileURL(ctx context.Context, storeName, fileID string) (string, error)
	}
)

type Deps struct {
	MetaStorage MetaStorage
	Registry    *Registry
	Logger      *zap.Logger
	// DeleteWorkers ограничивает параллелизм DeleteMany.
	DeleteWorkers int
}

type Files struct {
	Deps
}

// New конструирует сервис файлов с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.DeleteWorkers <= 0 {
		deps.DeleteWorkers = 4
	}
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

func (s *Files) store(name string) (Store, error) {
	st, ok := s.Registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrStoreNotFound, name)
	}
	return st, nil
}

// FileURL возвращает абсолютную ссылку на файл.
func (s *Files) FileURL(ctx context.Context, storeName, fileID string) (string, error) {
	st, err := s.store(storeName)
	if err != nil {
		return "", err
	}
	return st.GetFileURL(ctx, fileID)
}
