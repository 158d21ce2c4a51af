package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/trop3n/ARCompanion/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_records (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    last_updated INTEGER NOT NULL,
    source TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    data TEXT NOT NULL
);
`

// SQLiteStore persists cache records and settings in a local SQLite file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the cache database at path and bootstraps the
// schema.
func Open(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	// modernc's driver takes pragmas as _pragma=name(value) query params.
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure cache schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the record stored under key.
func (s *SQLiteStore) Get(key string) (models.CacheRecord, bool, error) {
	row := s.sqlDB.QueryRow(
		`SELECT key, data, last_updated, source FROM cache_records WHERE key = ?`, key)

	var record models.CacheRecord
	var data string
	var lastUpdated int64
	var source string
	if err := row.Scan(&record.Key, &data, &lastUpdated, &source); err != nil {
		if err == sql.ErrNoRows {
			return models.CacheRecord{}, false, nil
		}
		return models.CacheRecord{}, false, fmt.Errorf("read cache record %q: %w", key, err)
	}
	record.Data = json.RawMessage(data)
	record.LastUpdated = fromMillis(lastUpdated)
	record.Source = models.Source(source)
	return record, true, nil
}

// Set creates or overwrites the record under record.Key.
func (s *SQLiteStore) Set(record models.CacheRecord) error {
	if record.Key == "" {
		return fmt.Errorf("cache record key is required")
	}
	_, err := s.sqlDB.Exec(`
INSERT INTO cache_records (key, data, last_updated, source)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    data = excluded.data,
    last_updated = excluded.last_updated,
    source = excluded.source`,
		record.Key, string(record.Data), toMillis(record.LastUpdated), string(record.Source))
	if err != nil {
		return fmt.Errorf("write cache record %q: %w", record.Key, err)
	}
	return nil
}

// Clear wipes all cache records and saved settings.
func (s *SQLiteStore) Clear() error {
	if _, err := s.sqlDB.Exec(`DELETE FROM cache_records`); err != nil {
		return fmt.Errorf("clear cache records: %w", err)
	}
	if _, err := s.sqlDB.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}

// GetSettings returns saved settings, or defaults when none were saved yet.
func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	row := s.sqlDB.QueryRow(`SELECT data FROM settings WHERE id = 1`)

	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SetSettings persists the settings blob.
func (s *SQLiteStore) SetSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.sqlDB.Exec(`
INSERT INTO settings (id, data) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
