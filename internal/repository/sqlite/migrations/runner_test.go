package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/Meet3141/CampusConnect/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	return count
}

func TestRun(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second migration run (idempotent): %v", err)
	}
	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", got)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, roles, created_at, updated_at)
		 VALUES ('u1', 'Test User', 'test@example.com', 'hash', 'member', datetime('now'), datetime('now'))`)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
}

func TestRunFS_OrderAndSkip(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_seed.sql":  {Data: []byte("INSERT INTO things (name) VALUES ('first');")},
		"001_table.sql": {Data: []byte("CREATE TABLE things (name TEXT NOT NULL);")},
		"README.md":     {Data: []byte("not a migration")},
	}
	if err := migrations.RunFS(ctx, db, fsys); err != nil {
		t.Fatalf("RunFS: %v", err)
	}
	if err := migrations.RunFS(ctx, db, fsys); err != nil {
		t.Fatalf("RunFS again: %v", err)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM things").Scan(&rows); err != nil {
		t.Fatalf("count things: %v", err)
	}
	if rows != 1 {
		t.Fatalf("seed must run exactly once, got %d rows", rows)
	}
	if got := countMigrations(t, db); got != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", got)
	}
}

func TestRunFS_FailedMigrationRollsBack(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE half (id INTEGER); CREATE TABLE oops (;")},
	}
	if err := migrations.RunFS(ctx, db, fsys); err == nil {
		t.Fatal("expected the broken migration to fail")
	}

	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("expected only the first migration to be recorded, got %d", got)
	}
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE name = 'half'").Scan(&name)
	if err != sql.ErrNoRows {
		t.Fatalf("expected table from the failed migration to be rolled back, got %q (%v)", name, err)
	}
}
