package meta

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/sir_venger/ufs_lite/internal/models"
)

const upsertSuffix = `
ON CONFLICT (id) DO UPDATE
SET store     = EXCLUDED.store,
	file_name = EXCLUDED.file_name,
	extension = EXCLUDED.extension,
	type      = EXCLUDED.type,
	size      = EXCLUDED.size`

// upsertFile собирает UPSERT для любого диалекта с ON CONFLICT.
func upsertFile(b sq.StatementBuilderType, file models.File) (string, []any, error) {
	if strings.TrimSpace(file.ID) == "" {
		return "", nil, fmt.Errorf("file id is empty")
	}

	return b.Insert(filesMetaTable).
		Columns(fileColumns...).
		Values(file.ID, file.Store, file.Name, file.Extension, file.Type, file.Size).
		Suffix(upsertSuffix).
		ToSql()
}

// Save записывает (или обновляет) описание файла.
func (s *PGStore) Save(ctx context.Context, file models.File) error {
	sqlStr, args, err := upsertFile(pgBuilder, file)
	if err != nil {
		return fmt.Errorf("build upsert sql: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}

	return nil
}
