package buildlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens the build history database at path. The special value
// ":memory:" keeps history for the process lifetime only.
func OpenSQLite(path string) (*bun.DB, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		return nil, fmt.Errorf("buildlog: database path required")
	}
	if dsn == ":memory:" {
		dsn = "file::memory:?cache=shared"
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("buildlog: open sqlite %s: %w", path, err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}

// EnsureSchema creates the build history table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*BuildRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("buildlog: create schema: %w", err)
	}
	return nil
}
