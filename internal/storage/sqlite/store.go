package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/migration"
	"github.com/julianstephens/medwatch/migrations"
)

type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Open creates the parent directory, opens the database and applies pending migrations.
// Calling Open on an already open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// conn returns the open handle, opening the database on first use.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := open(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	s.db = db
	return db, nil
}

func open(ctx context.Context, path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(db, subFS)
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg)
	})
	return err
}
