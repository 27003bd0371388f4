package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/events/catalog"
)

// Index is a small SQLite table over the journal: one row per tick with the
// RNG cursor and event count, enough to locate a tick and verify replays
// without decompressing the whole stream.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (or creates) the index database at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("journal: empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ticks (
    tick       INTEGER PRIMARY KEY,
    seed       INTEGER NOT NULL,
    rng_draws  INTEGER NOT NULL,
    agents     INTEGER NOT NULL,
    events     INTEGER NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Record upserts the index row for one tick.
func (ix *Index) Record(rec catalog.TickRecord) error {
	_, err := ix.db.Exec(
		`INSERT OR REPLACE INTO ticks (tick, seed, rng_draws, agents, events) VALUES (?, ?, ?, ?, ?)`,
		rec.Tick, rec.Seed, rec.RNGDraws, len(rec.Positions), len(rec.Events),
	)
	return err
}

// IndexRow is one recorded tick summary.
type IndexRow struct {
	Tick     uint64
	Seed     int64
	RNGDraws uint64
	Agents   int
	Events   int
}

// Tick fetches the summary for one tick; the second result is false when the
// tick was never recorded.
func (ix *Index) Tick(tick uint64) (IndexRow, bool, error) {
	row := ix.db.QueryRow(`SELECT tick, seed, rng_draws, agents, events FROM ticks WHERE tick = ?`, tick)
	var out IndexRow
	err := row.Scan(&out.Tick, &out.Seed, &out.RNGDraws, &out.Agents, &out.Events)
	if err == sql.ErrNoRows {
		return IndexRow{}, false, nil
	}
	if err != nil {
		return IndexRow{}, false, err
	}
	return out, true, nil
}

// LatestTick reports the highest recorded tick, zero when empty.
func (ix *Index) LatestTick() (uint64, error) {
	row := ix.db.QueryRow(`SELECT COALESCE(MAX(tick), 0) FROM ticks`)
	var tick uint64
	if err := row.Scan(&tick); err != nil {
		return 0, err
	}
	return tick, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}
