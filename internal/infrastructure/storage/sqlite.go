package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache implements domain.LocalCache on top of a single key-value table.
// It replaces the browser localStorage the dashboard used to lean on, so the
// session token and the risk-settings fallback survive restarts.
type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	cache := &SQLiteCache{db: db}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

func (s *SQLiteCache) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS kv_cache (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to exec query %s: %w", query, err)
	}
	return nil
}

func (s *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv_cache WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteCache) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET
			  value=excluded.value,
			  updated_at=excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_cache WHERE key = ?`, key)
	return err
}

func (s *SQLiteCache) Close() error {
	return s.db.Close()
}
