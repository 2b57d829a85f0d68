package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/sir_venger/ufs_lite/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore хранит метаданные во встроенной базе SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// NewSQLiteStore открывает (или создаёт) файл базы. Схему накатывает repo.Open.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc/sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// DB отдаёт подключение для миграций.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.File, error) {
	sqlStr, args, err := sqliteBuilder.
		Select(fileColumns...).
		From(filesMetaTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.File{}, fmt.Errorf("build select: %w", err)
	}

	var file models.File
	err = s.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&file.ID, &file.Store, &file.Name, &file.Extension, &file.Type, &file.Size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.File{}, models.ErrNotFound
		}
		return models.File{}, fmt.Errorf("scan file row: %w", err)
	}

	return file, nil
}

func (s *SQLiteStore) Save(ctx context.Context, file models.File) error {
	sqlStr, args, err := upsertFile(sqliteBuilder, file)
	if err != nil {
		return fmt.Errorf("build upsert sql: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := sqliteBuilder.Delete(filesMetaTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("exec delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
