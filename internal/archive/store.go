// Package archive persists one tournament snapshot per calendar year.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playperu/bakken/internal/bakken"
)

var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("stored data is corrupt")
)

// Store keeps year snapshots and the roster they were built from. Snapshots
// are stored as JSON text, so a damaged row is reported as ErrCorrupt rather
// than rejected by the database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Store)

// WithClock sets the clock that decides the current year.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *sql.DB, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{db: db, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentYear is the year new results are saved under.
func (s *Store) CurrentYear() int { return s.now().Year() }

// LoadCurrent returns the current year's snapshot. Missing or unreadable
// data yields an empty snapshot; the problem is logged, never returned.
func (s *Store) LoadCurrent(ctx context.Context) bakken.Snapshot {
	return s.Load(ctx, s.CurrentYear())
}

// Load is LoadCurrent for an explicit year.
func (s *Store) Load(ctx context.Context, year int) bakken.Snapshot {
	snap, err := s.Year(ctx, year)
	if errors.Is(err, ErrNotFound) {
		return bakken.EmptySnapshot()
	}
	if err != nil {
		s.logger.Warn("current snapshot unreadable, starting empty", "year", year, "error", err)
		return bakken.EmptySnapshot()
	}
	return snap
}

// SaveCurrent overwrites the current year's snapshot.
func (s *Store) SaveCurrent(ctx context.Context, snap bakken.Snapshot) error {
	return s.SaveYear(ctx, s.CurrentYear(), snap)
}

func (s *Store) SaveYear(ctx context.Context, year int, snap bakken.Snapshot) error {
	snap.Normalize()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot %d: %w", year, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO year_snapshots (year, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(year) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		year, string(data), s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %d: %w", year, err)
	}
	return nil
}

// Years lists every year with a stored snapshot, newest first.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year FROM year_snapshots ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (s *Store) Year(ctx context.Context, year int) (bakken.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM year_snapshots WHERE year = ?`, year,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return bakken.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return bakken.Snapshot{}, err
	}
	snap, err := DecodeSnapshot([]byte(data))
	if err != nil {
		return bakken.Snapshot{}, fmt.Errorf("year %d: %w", year, err)
	}
	return snap, nil
}

// DeleteYear removes a year's snapshot and roster. There is no undo.
func (s *Store) DeleteYear(ctx context.Context, year int) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM year_snapshots WHERE year = ?`, year)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rosters WHERE year = ?`, year); err != nil {
		return err
	}
	return tx.Commit()
}

// ExportYear returns the year's snapshot as indented JSON, the download format.
func (s *Store) ExportYear(ctx context.Context, year int) ([]byte, error) {
	snap, err := s.Year(ctx, year)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ImportYear stores an exported document under year, replacing what is there.
func (s *Store) ImportYear(ctx context.Context, year int, data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return s.SaveYear(ctx, year, snap)
}

// Roster returns the raw roster data saved for year.
func (s *Store) Roster(ctx context.Context, year int) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM rosters WHERE year = ?`, year,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (s *Store) PutRoster(ctx context.Context, year int, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rosters (year, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(year) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		year, string(data), s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("saving roster %d: %w", year, err)
	}
	return nil
}

// DecodeSnapshot parses a stored or exported snapshot document. A document
// that parses but breaks the ledger's rules is as unusable as one that does
// not parse, so both are ErrCorrupt.
func DecodeSnapshot(data []byte) (bakken.Snapshot, error) {
	var snap bakken.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return bakken.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := snap.Validate(); err != nil {
		return bakken.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	snap.Normalize()
	return snap, nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}
