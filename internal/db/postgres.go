package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN.
func NewPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	// Дашборд и статистика открывают по четыре параллельных запроса на каждый просмотр.
	conn.SetMaxOpenConns(50)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return conn, nil
}

// gooseUp подменяется в тестах.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// RunMigrations применяет goose-миграции из каталога migrationsDir.
func RunMigrations(ctx context.Context, conn *sqlx.DB, migrationsDir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres: не удалось выбрать диалект миграций: %w", err)
	}

	if err := gooseUp(ctx, conn.DB, migrationsDir); err != nil {
		return fmt.Errorf("postgres: не удалось применить миграции из %s: %w", migrationsDir, err)
	}

	return nil
}
