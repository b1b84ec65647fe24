// Package storage owns the on-disk schema of the flight log: first-run
// bootstrap, in-place schema reconciliation on upgrade, and the rebuild of
// the bundled airport/airline reference tables at every startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"flightlog/internal/auth"
)

// DBFileName is the fixed name of the database file inside the data directory.
const DBFileName = "flightlog.db"

const (
	defaultUsername = "admin"
	defaultPassword = "admin"
)

// Config holds the inputs the storage layer needs. All paths are supplied by
// the caller; nothing is read from the environment here.
type Config struct {
	// Dir is the data directory holding the database file.
	Dir string
	// AirportsDB and AirlinesDB are the bundled read-only snapshot files the
	// reference tables are rebuilt from.
	AirportsDB string
	AirlinesDB string
	// Logger receives operator-facing startup messages. Defaults to a no-op
	// logger when nil.
	Logger *zap.Logger
}

// DB is the shared connection handle. It is safe for concurrent use by
// request handlers once Open has returned; the reconcile pass itself runs
// synchronously inside Open, before any other goroutine sees the handle.
type DB struct {
	db  *sql.DB
	cfg Config
	log *zap.Logger
}

// Open opens or creates the database file inside cfg.Dir, then brings the
// schema up to date: on a fresh file it creates all tables, seeds the default
// admin user and loads the reference data; on an existing file it refreshes
// the reference tables and reconciles the user tables against their expected
// shape.
//
// An error from Open is fatal to the caller: the store must not be used in a
// partially-initialized state. When first-run table creation fails, the
// half-built file is removed before returning so the next start begins clean.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	path := filepath.Join(cfg.Dir, DBFileName)

	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	// Pragmas in the DSN apply to every new physical connection the pool
	// opens, not just the first. SQLite ships with foreign_keys off; the
	// flights.connection constraint depends on it being forced on.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if fresh {
		log.Info("database file not found, creating it", zap.String("path", path))
	}

	// Force file creation (or verify readability) with one real connection.
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create database file at %s (check volume ownership): %w", path, err)
	}

	d := &DB{db: sqlDB, cfg: cfg, log: log}

	if fresh {
		if err := d.initializeTables(ctx); err != nil {
			_ = sqlDB.Close()
			// Do not leave a half-initialized store behind.
			_ = os.Remove(path)
			return nil, fmt.Errorf("initialize tables: %w", err)
		}
	} else {
		if err := d.refreshReferenceData(ctx, true); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("refresh reference data: %w", err)
		}
		if err := d.reconcile(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("reconcile schema: %w", err)
		}
	}

	log.Info("database initialization complete")
	return d, nil
}

// Close releases the connection handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// initializeTables creates every managed table on a fresh database, seeds the
// default admin user and loads the reference tables.
func (d *DB) initializeTables(ctx context.Context) error {
	for _, spec := range tableSpecs() {
		if _, err := d.ExecuteWrite(ctx, "CREATE TABLE "+spec.name+" "+spec.ddl+";"); err != nil {
			return err
		}
	}

	if err := d.createFirstUser(ctx); err != nil {
		return err
	}

	return d.refreshReferenceData(ctx, false)
}

// createFirstUser inserts the default admin account. It runs exactly once:
// when the users table has just been created.
func (d *DB) createFirstUser(ctx context.Context) error {
	d.log.Info("creating first user", zap.String("username", defaultUsername))
	d.log.Warn("REMEMBER TO CHANGE THE DEFAULT PASSWORD FOR THIS USER!")

	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return err
	}

	_, err = d.ExecuteWrite(ctx,
		"INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, 1);",
		defaultUsername, hash)
	return err
}
