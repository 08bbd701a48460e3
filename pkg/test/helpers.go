package test

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"todolist/internal/adapter/database/sqlite"
)

// InitTestDB returns a migrated in-memory database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Config{Path: sqlite.MemoryPath}, zerolog.Nop())

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// FixedClock returns a clock stuck at the given instant that can be moved with Advance.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// CleanDB empties every application table, keeping the schema.
func CleanDB(t *testing.T, db *sqlite.DB) {
	t.Helper()

	rows, err := db.QueryContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")

	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, table)
	}

	rows.Close()

	for _, table := range tables {
		if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}
