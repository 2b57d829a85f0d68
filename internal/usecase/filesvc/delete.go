package filesvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Delete удаляет байты файла, а затем его запись в метаданных.
// Отсутствие байтов на диске не мешает удалить запись.
func (s *Files) Delete(ctx context.Context, storeName, fileID string) error {
	st, err := s.store(storeName)
	if err != nil {
		return err
	}

	if _, err = st.Record(ctx, fileID); err != nil {
		return err
	}

	if err = st.Delete(ctx, fileID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("delete bytes: %w", err)
		}
		s.Logger.Warn("bytes already gone", zap.String("store", storeName), zap.String("file_id", fileID))
	}

	return s.MetaStorage.Delete(ctx, fileID)
}

// DeleteMany удаляет файлы параллельно с ограничением на число воркеров.
func (s *Files) DeleteMany(ctx context.Context, storeName string, fileIDs []string) error {
	if _, err := s.store(storeName); err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.DeleteWorkers)
	for _, id := range fileIDs {
		id := id
		eg.Go(func() error {
			if err := s.Delete(egCtx, storeName, id); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			return nil
		})
	}

	return eg.Wait()
}
