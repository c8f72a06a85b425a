package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
)

// SQLiteStore keeps the bar cache in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string, log *logrus.Entry) (*SQLiteStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets concurrent workers read while one writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db, log: log, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bar_cache (
			cache_key  TEXT PRIMARY KEY,
			symbol     TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			payload    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bar_cache_fetched ON bar_cache(fetched_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetSeries(ctx context.Context, key string, maxAge time.Duration) (*model.RawSeries, bool, error) {
	var (
		fetchedAt int64
		payload   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM bar_cache WHERE cache_key = ?`, key,
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query bar cache: %w", err)
	}
	if maxAge > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, false, nil
	}

	var series model.RawSeries
	if err := json.Unmarshal([]byte(payload), &series); err != nil {
		return nil, false, fmt.Errorf("decode cached series: %w", err)
	}
	return &series, true, nil
}

func (s *SQLiteStore) PutSeries(ctx context.Context, key string, series *model.RawSeries) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encode series: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `INSERT INTO bar_cache (cache_key, symbol, fetched_at, payload)
		VALUES (?,?,?,?)
		ON CONFLICT(cache_key) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		key, series.Symbol, s.now().Unix(), string(payload),
	)
	return err
}

// Prune deletes cache entries older than maxAge and returns how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM bar_cache WHERE fetched_at < ?`, s.now().Add(-maxAge).Unix())
	if err != nil {
		return 0, fmt.Errorf("prune bar cache: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}

