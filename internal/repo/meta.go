package repo

import (
	"context"
	"sync"

	"github.com/sir_venger/ufs_lite/internal/models"
)

// MemoryStore хранит метаданные только в оперативной памяти; удобно для тестов.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]models.File
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string]models.File{}}
}

// Get возвращает метаданные файла по id или ошибку, если файл не найден.
func (s *MemoryStore) Get(_ context.Context, id string) (models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fr, ok := s.files[id]
	if !ok {
		return models.File{}, models.ErrNotFound
	}
	return fr, nil
}

// Save записывает (или обновляет) метаданные файла целиком.
func (s *MemoryStore) Save(_ context.Context, fr models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fr.ID] = fr
	return nil
}

// Delete удаляет запись.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.files, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
