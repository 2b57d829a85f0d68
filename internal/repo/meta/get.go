package meta

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sir_venger/ufs_lite/internal/models"
)

// Get возвращает описание файла по его идентификатору.
func (s *PGStore) Get(ctx context.Context, id string) (models.File, error) {
	if strings.TrimSpace(id) == "" {
		return models.File{}, models.ErrNotFound
	}

	sqlStr, args, err := pgBuilder.
		Select(fileColumns...).
		From(filesMetaTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.File{}, fmt.Errorf("build select: %w", err)
	}

	var file models.File
	err = s.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&file.ID, &file.Store, &file.Name, &file.Extension, &file.Type, &file.Size)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.File{}, models.ErrNotFound
		}
		return models.File{}, fmt.Errorf("scan file row: %w", err)
	}

	return file, nil
}
