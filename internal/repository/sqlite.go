package repository

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketScout/internal/model"
)

// SQLiteRepository persists accepted signals to a SQLite database and keeps
// the bounded recent view in memory. The durable log is unbounded and
// queryable in full regardless of the view's truncation.
type SQLiteRepository struct {
	db     *sql.DB
	mu     sync.Mutex
	recent *recentRing
	log    zerolog.Logger
}

// NewSQLiteRepository opens (or creates) the database and runs migrations.
// Errors here are fatal to the caller: the engine must not start without its
// persistence boundary.
func NewSQLiteRepository(dbPath string, recentCap int, log zerolog.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the status endpoint can read while the scan loop writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRepository{db: db, recent: newRecentRing(recentCap), log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite repository opened")
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			signal_id      TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			sector         TEXT,
			percent_change REAL,
			volume         REAL,
			trend          TEXT,
			confidence     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Append writes the signal to the durable log, then pushes it into the recent
// view. The write is synchronous: a crash after Append still leaves a durable
// record even if the outbound notification never happens.
func (r *SQLiteRepository) Append(sig model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(signal_id, timestamp, symbol, sector, percent_change, volume, trend, confidence)
		VALUES (?,?,?,?,?,?,?,?)`,
		sig.ID, sig.Time.Unix(), sig.Symbol, sig.Sector,
		sig.PercentChange, sig.Volume, string(sig.Trend), sig.Confidence,
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	r.recent.push(sig)
	return nil
}

// Recent returns the newest signals from the in-memory view, most-recent-first.
func (r *SQLiteRepository) Recent(limit int) []model.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent.view(limit)
}

// All reads the full durable log, most-recent-first.
func (r *SQLiteRepository) All() ([]model.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT signal_id, timestamp, symbol, sector, percent_change, volume, trend, confidence
		FROM signals ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []model.Signal
	for rows.Next() {
		var sig model.Signal
		var ts int64
		var trend string
		if err := rows.Scan(&sig.ID, &ts, &sig.Symbol, &sig.Sector,
			&sig.PercentChange, &sig.Volume, &trend, &sig.Confidence); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Time = time.Unix(ts, 0).UTC()
		sig.Trend = model.TrendLabel(trend)
		out = append(out, sig)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	r.log.Info().Msg("closing sqlite repository")
	return r.db.Close()
}
