// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of per-record conversion outcomes.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/csv2parquet/pkg/types"
)

// ErrDisabled is returned by NewStore when no database path is configured.
var ErrDisabled = errors.New("ledger disabled")

const defaultLimit = 20

// Entry is one stored outcome.
type Entry struct {
	ID           string              `json:"id" yaml:"id"`
	InvocationID string              `json:"invocation_id" yaml:"invocation_id"`
	Outcome      types.RecordOutcome `json:"outcome" yaml:"outcome"`
}

// Store manages the ledger database.
type Store struct {
	db    *sql.DB
	newID func() string
}

// NewStore opens or creates the ledger database at cfg.Path and creates the
// schema if it does not exist. It returns ErrDisabled when cfg.Path is empty.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrDisabled
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, newID: uuid.NewString}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS outcomes (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			invocation_id TEXT NOT NULL,
			bucket TEXT NOT NULL,
			object_key TEXT NOT NULL,
			input TEXT,
			output TEXT,
			status TEXT NOT NULL,
			stage TEXT,
			row_count INTEGER,
			error TEXT,
			processed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_invocation ON outcomes(invocation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores o under a new outcome ID.
func (s *Store) Record(ctx context.Context, invocationID string, o types.RecordOutcome) error {
	processedAt := o.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, invocation_id, bucket, object_key, input, output, status, stage, row_count, error, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.newID(), invocationID, o.Bucket, o.Key, o.Input, o.Output,
		string(o.Status), string(o.Stage), o.Rows, o.Reason,
		processedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting outcome for %s/%s: %w", o.Bucket, o.Key, err)
	}
	return nil
}

// Recent returns up to limit outcomes, newest first. A non-positive limit
// uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, invocation_id, bucket, object_key, input, output, status, stage, row_count, error, processed_at
		 FROM outcomes ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                         Entry
			input, output, stage, msg sql.NullString
			count                     sql.NullInt64
			status, processedAt       string
		)
		if err := rows.Scan(&e.ID, &e.InvocationID, &e.Outcome.Bucket, &e.Outcome.Key,
			&input, &output, &status, &stage, &count, &msg, &processedAt); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		e.Outcome.Input = input.String
		e.Outcome.Output = output.String
		e.Outcome.Status = types.OutcomeStatus(status)
		e.Outcome.Stage = types.Stage(stage.String)
		e.Outcome.Rows = count.Int64
		e.Outcome.Reason = msg.String
		if t, err := time.Parse(time.RFC3339Nano, processedAt); err == nil {
			e.Outcome.ProcessedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts holds the number of stored outcomes per status.
type Counts struct {
	Processed int `json:"processed" yaml:"processed"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of stored outcomes.
func (c Counts) Total() int {
	return c.Processed + c.Skipped + c.Failed
}

// Counts tallies all stored outcomes by status.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM outcomes GROUP BY status`)
	if err != nil {
		return Counts{}, fmt.Errorf("counting outcomes: %w", err)
	}
	defer rows.Close()

	var c Counts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return Counts{}, fmt.Errorf("scanning count: %w", err)
		}
		switch types.OutcomeStatus(status) {
		case types.OutcomeProcessed:
			c.Processed = n
		case types.OutcomeSkipped:
			c.Skipped = n
		case types.OutcomeFailed:
			c.Failed = n
		}
	}
	return c, rows.Err()
}
