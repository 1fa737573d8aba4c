// Package sqlite provides a durable core.SessionStore backed by a single
// SQLite database file via the CGO-free modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/researchmesh/core"
)

// Store persists research session records in SQLite.
type Store struct {
	db        *sql.DB
	listLimit int
}

// Options configure the SQLite store.
type Options struct {
	// ListLimit caps the number of records returned by List.
	ListLimit int
}

// NewStore opens (or creates) the database at dbPath and initializes the
// schema.
func NewStore(ctx context.Context, dbPath string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{ListLimit: 20}
	for _, fn := range optFns {
		fn(&opts)
	}
	// WAL mode allows readers alongside the single writer; the busy timeout
	// smooths over transient lock contention.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; serialize access through one conn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, listLimit: opts.ListLimit}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS research_sessions (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		query      TEXT NOT NULL,
		report     TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_owner_created
		ON research_sessions(owner_id, created_at DESC);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save persists a completed run and returns the stored record.
func (s *Store) Save(ctx context.Context, query, report, ownerID string) (*core.Record, error) {
	rec := core.Record{
		ID:        core.NewID(),
		OwnerID:   ownerID,
		Query:     query,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO research_sessions (id, owner_id, query, report, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.Query, rec.Report, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &rec, nil
}

// List returns the owner's records, most recent first, capped at the
// configured list limit.
func (s *Store) List(ctx context.Context, ownerID string) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, query, report, created_at
		 FROM research_sessions WHERE owner_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		ownerID, s.listLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns a single record or core.ErrRecordNotFound.
func (s *Store) Get(ctx context.Context, id, ownerID string) (*core.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, query, report, created_at
		 FROM research_sessions WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	return rec, err
}

// Delete removes a record, reporting whether a record was deleted.
func (s *Store) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM research_sessions WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*core.Record, error) {
	var rec core.Record
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Query, &rec.Report, &createdAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}
