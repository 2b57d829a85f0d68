package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
)

// DefaultLocalPath используется, если в конфиге путь не задан.
const DefaultLocalPath = "ufs/uploads"

// LocalConfig описывает локальный сторадж.
type LocalConfig struct {
	Name    string
	Path    string
	BaseURL string
	// Bootstrap создаёт корневой каталог при старте (только для роли server).
	Bootstrap bool
}

// LocalStore хранит байты файлов на локальном диске: один файл на идентификатор, без шардирования.
type LocalStore struct {
	name    string
	root    string
	baseURL string
	meta    MetaLookup
	logger  *zap.Logger
}

// NewLocalStore создаёт локальный сторадж. Ошибка создания каталога только логируется:
// сторадж всё равно создаётся, а операции потом падают по отдельности.
func NewLocalStore(cfg LocalConfig, meta MetaLookup, logger *zap.Logger) (*LocalStore, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: store name is empty", models.ErrInvalidConfig)
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: store %q has no metadata lookup", models.ErrInvalidConfig, cfg.Name)
	}
	if cfg.Path == "" {
		cfg.Path = DefaultLocalPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &LocalStore{
		name:    cfg.Name,
		root:    strings.TrimRight(cfg.Path, "/"),
		baseURL: cfg.BaseURL,
		meta:    meta,
		logger:  logger.With(zap.String("store", cfg.Name)),
	}
	if s.root == "" {
		s.root = "/"
	}

	if cfg.Bootstrap {
		if err := os.MkdirAll(s.root, 0o755); err != nil {
			s.logger.Error("ufs: error creating store", zap.String("path", s.root), zap.Error(err))
		} else {
			s.logger.Info("ufs: created store", zap.String("path", s.root))
		}
	}

	return s, nil
}

func (s *LocalStore) Name() string { return s.name }

// GetPath возвращает корневой каталог стоража.
func (s *LocalStore) GetPath() string { return s.root }

// Record возвращает метаданные файла, если запись принадлежит этому сторажу.
func (s *LocalStore) Record(ctx context.Context, fileID string) (models.File, error) {
	return lookupRecord(ctx, s.meta, s.name, fileID)
}

// ResolvePath возвращает путь до файла или models.ErrNotFound, если записи нет.
func (s *LocalStore) ResolvePath(ctx context.Context, fileID string) (string, error) {
	file, err := lookupRecord(ctx, s.meta, s.name, fileID)
	if err != nil {
		return "", err
	}

	return FilePath(s.root, fileID, file.Extension), nil
}

// GetFileURL возвращает абсолютный URL файла.
func (s *LocalStore) GetFileURL(ctx context.Context, fileID string) (string, error) {
	file, err := lookupRecord(ctx, s.meta, s.name, fileID)
	if err != nil {
		return "", err
	}

	return FileURL(s.baseURL, s.name, fileID, file.Extension), nil
}

// Delete удаляет байты файла. Запись метаданных остаётся на совести вызывающего.
func (s *LocalStore) Delete(ctx context.Context, fileID string) error {
	path, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", models.ErrNotFound, fileID)
		}
		return err
	}

	return nil
}

// GetReadStream открывает файл на чтение. Вызывающий обязан закрыть поток.
func (s *LocalStore) GetReadStream(ctx context.Context, fileID string) (io.ReadCloser, error) {
	path, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, fileID)
		}
		return nil, err
	}

	return f, nil
}

// GetWriteStream открывает файл на дозапись: повторная запись в тот же id
// добавляет байты в конец, а не перезаписывает файл.
func (s *LocalStore) GetWriteStream(ctx context.Context, fileID string) (io.WriteCloser, error) {
	path, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Probe проверяет, что корневой каталог существует и доступен.
func (s *LocalStore) Probe(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}

	return nil
}

// SweepOrphans удаляет файлы без записи в метаданных, которые не менялись дольше ttl.
func (s *LocalStore) SweepOrphans(ctx context.Context, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if e.IsDir() {
			continue
		}

		name := e.Name()
		ext := filepath.Ext(name)
		if ext == "" {
			continue
		}

		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < ttl {
			continue
		}

		fileID := strings.TrimSuffix(name, ext)
		file, err := lookupRecord(ctx, s.meta, s.name, fileID)
		if err == nil && "."+file.Extension == ext {
			continue
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			continue
		}

		if err = os.Remove(filepath.Join(s.root, name)); err != nil {
			s.logger.Warn("gc: remove orphan failed", zap.String("file", name), zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}
