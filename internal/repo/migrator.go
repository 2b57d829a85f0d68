package repo

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplyMigrations запускает goose-миграции для Postgres или SQLite, используя встроенные SQL файлы.
func ApplyMigrations(ctx context.Context, dsn string) error {
	driver, source, dialect, err := sqlTarget(dsn)
	if err != nil {
		return err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	return migrate(ctx, db, dialect)
}

func migrate(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, migrationsDir)
}

// sqlTarget разбирает DSN в драйвер database/sql, источник и диалект goose.
func sqlTarget(dsn string) (driver, source, dialect string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", "", fmt.Errorf("meta dsn is empty")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, "postgres", nil
	case strings.HasPrefix(dsn, sqliteScheme):
		return "sqlite", strings.TrimPrefix(dsn, sqliteScheme), "sqlite3", nil
	default:
		return "", "", "", fmt.Errorf("unsupported meta dsn scheme: %q", dsn)
	}
}
