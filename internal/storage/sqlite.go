//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/testmatrix"
)

type SQLiteStore struct {
	path   string
	logger logging.Logger

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string, opts ...Option) *SQLiteStore {
	o := buildOptions(opts)
	return &SQLiteStore{path: path, logger: o.logger}
}

func newSQLiteStore(path string, opts ...Option) (Store, error) {
	return NewSQLiteStore(path, opts...), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS matrices (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			summary TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS conditions (
			matrix_id TEXT NOT NULL REFERENCES matrices(id) ON DELETE CASCADE,
			replicate INTEGER NOT NULL,
			position INTEGER NOT NULL,
			equivalence REAL NOT NULL,
			diluent_mole_fraction REAL NOT NULL,
			fuel TEXT NOT NULL,
			oxidizer TEXT NOT NULL,
			diluent TEXT NOT NULL,
			initial_pressure REAL NOT NULL,
			initial_temperature REAL NOT NULL,
			fuel_mole_fraction REAL NOT NULL,
			oxidizer_mole_fraction REAL NOT NULL,
			fuel_mass_fraction REAL NOT NULL,
			oxidizer_mass_fraction REAL NOT NULL,
			diluent_mass_fraction REAL NOT NULL,
			fuel_partial_pressure REAL NOT NULL,
			oxidizer_partial_pressure REAL NOT NULL,
			diluent_partial_pressure REAL NOT NULL,
			PRIMARY KEY (matrix_id, replicate, position)
		);
	`)
	return err
}

var insertCondition = fmt.Sprintf(
	"INSERT INTO conditions (matrix_id, replicate, %s) VALUES (?, ?%s)",
	strings.Join(columns, ", "),
	strings.Repeat(", ?", len(columns)),
)

var selectCondition = fmt.Sprintf(
	"SELECT %s FROM conditions WHERE matrix_id = ? AND replicate = ? ORDER BY position",
	strings.Join(columns, ", "),
)

// WriteMatrix replaces any matrix stored under the same id.
func (s *SQLiteStore) WriteMatrix(ctx context.Context, snap testmatrix.Snapshot) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	summary, err := json.Marshal(snap.Summary)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conditions WHERE matrix_id = ?`, snap.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO matrices (id, created_at, summary)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			summary = excluded.summary
	`, snap.ID, snap.CreatedAt.UTC().Format(time.RFC3339Nano), string(summary)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertCondition)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rep := range snap.Replicates {
		for pos, c := range rep {
			args := []any{snap.ID, i + 1,
				pos, c.Equivalence, c.DiluentMoleFraction,
				c.Fuel, c.Oxidizer, c.Diluent,
				c.InitialPressure, c.InitialTemperature,
				c.FuelMoleFraction, c.OxidizerMoleFraction,
				c.FuelMassFraction, c.OxidizerMassFraction, c.DiluentMassFraction,
				c.FuelPartialPressure, c.OxidizerPartialPressure, c.DiluentPartialPressure,
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert replicate %d position %d: %w", i+1, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("wrote matrix", logging.String("matrix_id", snap.ID), logging.String("db", s.path))
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Metadata, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT created_at, summary FROM matrices ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Metadata, 0)
	for rows.Next() {
		var createdAt, summary string
		if err := rows.Scan(&createdAt, &summary); err != nil {
			return nil, err
		}
		meta, err := decodeMetadata(createdAt, summary)
		if err != nil {
			return nil, err
		}
		out = append(out, *meta)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Metadata, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	var createdAt, summary string
	err = db.QueryRowContext(ctx, `SELECT created_at, summary FROM matrices WHERE id = ?`, id).Scan(&createdAt, &summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("matrix %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return decodeMetadata(createdAt, summary)
}

func decodeMetadata(createdAt, summary string) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal([]byte(summary), &meta.Summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	meta.CreatedAt = t
	return &meta, nil
}

func (s *SQLiteStore) LoadReplicate(ctx context.Context, id string, n int) ([]testmatrix.Condition, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectCondition, id, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]testmatrix.Condition, 0)
	for rows.Next() {
		var (
			pos int
			c   testmatrix.Condition
		)
		if err := rows.Scan(&pos,
			&c.Equivalence, &c.DiluentMoleFraction,
			&c.Fuel, &c.Oxidizer, &c.Diluent,
			&c.InitialPressure, &c.InitialTemperature,
			&c.FuelMoleFraction, &c.OxidizerMoleFraction,
			&c.FuelMassFraction, &c.OxidizerMassFraction, &c.DiluentMassFraction,
			&c.FuelPartialPressure, &c.OxidizerPartialPressure, &c.DiluentPartialPressure,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("matrix %s replicate %d: %w", id, n, ErrNotFound)
	}
	return out, nil
}
