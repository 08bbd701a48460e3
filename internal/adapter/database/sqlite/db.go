package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"todolist/db"
)

const (
	DefaultPath = "todos.db"
	MemoryPath  = ":memory:"
)

type Config struct {
	Path         string
	MaxOpenConns int
	LogQueries   bool
}

type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
	Path         string
}

// NewDB opens the database file, applies the embedded migrations and
// returns a handle ready for the repositories.
func NewDB(cfg Config, logger zerolog.Logger) (*DB, error) {
	path := cfg.Path

	if path == "" {
		path = DefaultPath
	}

	dsn := buildDSN(path)

	traced, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todolist"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	var sqlDB *sql.DB

	if cfg.LogQueries {
		sqlDB = sqldblogger.OpenDriver(dsn, traced.Driver(), zerologadapter.New(logger),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		)
		_ = traced.Close()
	} else {
		sqlDB = traced
	}

	// every connection to :memory: is its own database
	if path == MemoryPath {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		maxOpen := cfg.MaxOpenConns

		if maxOpen <= 0 {
			maxOpen = 10
		}

		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("SQLite database ready")

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Path:         path,
	}, nil
}

func buildDSN(path string) string {
	separator := "?"

	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + "_foreign_keys=on&_busy_timeout=5000"
}

// RunMigrations applies the embedded schema on the given handle. The
// migrate instance is not closed since that would close the handle too.
func RunMigrations(sqlDB *sql.DB) error {
	source, err := iofs.New(db.SQLiteMigrations, db.SQLiteMigrationsDir)

	if err != nil {
		return fmt.Errorf("load sqlite migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite.Error

	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique
}
