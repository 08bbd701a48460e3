package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"todolist/db"
)

const uniqueViolation = "23505"

type Config struct {
	URL        string
	MaxConns   int32
	LogQueries bool
}

type DB struct {
	*pgxpool.Pool
	QueryBuilder squirrel.StatementBuilderType
}

func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: database url is not set")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)

	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	if cfg.LogQueries {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)

	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := RunMigrations(cfg.URL); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Str("host", poolConfig.ConnConfig.Host).Msg("PostgreSQL database ready")

	return &DB{
		Pool:         pool,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func queryLogger(logger zerolog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var event *zerolog.Event

		switch level {
		case tracelog.LogLevelError:
			event = logger.Error()
		case tracelog.LogLevelWarn:
			event = logger.Warn()
		case tracelog.LogLevelInfo:
			event = logger.Info()
		default:
			event = logger.Debug()
		}

		event.Fields(data).Msg(msg)
	})
}

// RunMigrations applies the embedded schema through a short lived
// database/sql handle, which is what the migrate driver expects.
func RunMigrations(url string) error {
	source, err := iofs.New(db.PostgresMigrations, db.PostgresMigrationsDir)

	if err != nil {
		return fmt.Errorf("load postgres migrations: %w", err)
	}

	sqlDB, err := sql.Open("pgx", url)

	if err != nil {
		return err
	}

	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	d.Pool.Close()
	return nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
