package filesvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
)

const (
	defaultExtension   = "bin"
	defaultContentType = "application/octet-stream"
)

// Upload создаёт запись о файле и потоково пишет тело в сторадж.
// Запись сохраняется строго до первой записи байтов.
func (s *Files) Upload(ctx context.Context, storeName string, r io.Reader, name, contentType string) (models.UploadResult, error) {
	st, err := s.store(storeName)
	if err != nil {
		return models.UploadResult{}, err
	}

	ext := extensionOf(name)
	file := models.File{
		ID:        uuid.NewString(),
		Store:     storeName,
		Name:      strings.TrimSpace(name),
		Extension: ext,
		Type:      contentTypeOf(contentType, ext),
	}

	if err = s.MetaStorage.Save(ctx, file); err != nil {
		return models.UploadResult{}, fmt.Errorf("save meta: %w", err)
	}

	logger := s.Logger.With(zap.String("store", storeName), zap.String("file_id", file.ID))
	n, err := s.write(ctx, st, file.ID, r)
	if err != nil {
		s.rollback(ctx, st, file.ID, logger)
		return models.UploadResult{}, err
	}

	file.Size = n
	if err = s.MetaStorage.Save(ctx, file); err != nil {
		s.rollback(ctx, st, file.ID, logger)
		return models.UploadResult{}, fmt.Errorf("save meta: %w", err)
	}

	url, err := st.GetFileURL(ctx, file.ID)
	if err != nil {
		return models.UploadResult{}, err
	}

	logger.Info("file stored", zap.Int64("bytes", n), zap.String("type", file.Type))
	return models.UploadResult{FileID: file.ID, URL: url, Size: n}, nil
}

func (s *Files) write(ctx context.Context, st Store, fileID string, r io.Reader) (int64, error) {
	ws, err := st.GetWriteStream(ctx, fileID)
	if err != nil {
		return 0, fmt.Errorf("open write stream: %w", err)
	}

	n, err := io.Copy(ws, NewContextReader(ctx, r))
	closeErr := ws.Close()
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	if closeErr != nil {
		return n, fmt.Errorf("close write stream: %w", closeErr)
	}

	return n, nil
}

// rollback убирает недописанный файл вместе с его записью.
func (s *Files) rollback(ctx context.Context, st Store, fileID string, logger *zap.Logger) {
	ctx = context.WithoutCancel(ctx)
	DeleteQuiet(ctx, st, fileID, logger)
	if err := s.MetaStorage.Delete(ctx, fileID); err != nil && !errors.Is(err, models.ErrNotFound) {
		logger.Error("rollback meta failed", zap.Error(err))
	}
}

// extensionOf возвращает расширение без точки в нижнем регистре.
func extensionOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), "."))
	if ext == "" || strings.ContainsAny(ext, "/\\ ") {
		return defaultExtension
	}
	return ext
}

func contentTypeOf(declared, ext string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	return defaultContentType
}
