// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the supplier catalog and its decision history in a
// SQLite database and serves the read-only lookups used by the feeders.
//
// The only write path is Import, an administrative operation that loads a
// catalog YAML file. Resolution never writes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

const defaultPath = "data/suppliers.db"

// Normalizer canonicalizes names before they are stored or looked up.
type Normalizer interface {
	Normalize(raw string) string
}

// Store manages the supplier SQLite database.
type Store struct {
	db         *sql.DB
	normalizer Normalizer
}

// Open opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func Open(cfg types.StoreConfig, n Normalizer) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, normalizer: n}
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
		`CREATE TABLE IF NOT EXISTS suppliers (
			id TEXT PRIMARY KEY,
			official_name TEXT NOT NULL,
			english_name TEXT,
			normalized_name TEXT NOT NULL,
			usage_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suppliers_normalized ON suppliers(normalized_name)`,
		`CREATE TABLE IF NOT EXISTS supplier_aliases (
			normalized_alias TEXT NOT NULL,
			supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
			PRIMARY KEY (normalized_alias, supplier_id)
		)`,
		`CREATE TABLE IF NOT EXISTS overrides (
			normalized_input TEXT PRIMARY KEY,
			supplier_id TEXT NOT NULL,
			reason TEXT,
			created_by TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS learning_feedback (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			normalized_input TEXT NOT NULL,
			supplier_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK (action IN ('confirm', 'reject'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_input ON learning_feedback(normalized_input)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			normalized_input TEXT NOT NULL,
			supplier_id TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_input ON decisions(normalized_input)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AliasMatches returns the ids of suppliers with an alias equal to normalized.
func (s *Store) AliasMatches(ctx context.Context, normalized string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT supplier_id FROM supplier_aliases WHERE normalized_alias = ? ORDER BY supplier_id`,
		normalized)
}

// Override returns the manual override for normalized, or nil.
func (s *Store) Override(ctx context.Context, normalized string) (*types.Override, error) {
	var (
		o                 types.Override
		reason, createdBy sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT supplier_id, reason, created_by FROM overrides WHERE normalized_input = ?`,
		normalized,
	).Scan(&o.SupplierID, &reason, &createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying override: %w", err)
	}
	o.Reason = reason.String
	o.CreatedBy = createdBy.String
	return &o, nil
}

// FeedbackCounts aggregates confirm and reject actions per supplier.
func (s *Store) FeedbackCounts(ctx context.Context, normalized string) ([]types.FeedbackCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT supplier_id,
			SUM(CASE WHEN action = 'confirm' THEN 1 ELSE 0 END),
			SUM(CASE WHEN action = 'reject' THEN 1 ELSE 0 END)
		FROM learning_feedback
		WHERE normalized_input = ?
		GROUP BY supplier_id
		ORDER BY supplier_id`, normalized)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []types.FeedbackCount
	for rows.Next() {
		var fc types.FeedbackCount
		if err := rows.Scan(&fc.SupplierID, &fc.Confirmations, &fc.Rejections); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

// DecisionCounts counts past decisions per supplier for normalized.
func (s *Store) DecisionCounts(ctx context.Context, normalized string) ([]types.DecisionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT supplier_id, COUNT(*) FROM decisions
		WHERE normalized_input = ?
		GROUP BY supplier_id
		ORDER BY supplier_id`, normalized)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []types.DecisionCount
	for rows.Next() {
		var dc types.DecisionCount
		if err := rows.Scan(&dc.SupplierID, &dc.Count); err != nil {
			return nil, fmt.Errorf("scanning decisions: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// AllSuppliers returns the full catalog ordered by id.
func (s *Store) AllSuppliers(ctx context.Context) ([]types.Supplier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, official_name, english_name, normalized_name, usage_count
		FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}
	defer rows.Close()

	var out []types.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

// AnchorMatches returns the ids of suppliers whose normalized name
// contains anchor as whole words.
func (s *Store) AnchorMatches(ctx context.Context, anchor string) ([]string, error) {
	if strings.TrimSpace(anchor) == "" {
		return nil, nil
	}
	return s.queryIDs(ctx,
		`SELECT id FROM suppliers
		WHERE ' ' || normalized_name || ' ' LIKE ? ESCAPE '\'
		ORDER BY id`,
		"% "+escapeLike(anchor)+" %")
}

// SupplierByID returns the supplier with id, or nil if it does not exist.
func (s *Store) SupplierByID(ctx context.Context, id string) (*types.Supplier, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, official_name, english_name, normalized_name, usage_count
		FROM suppliers WHERE id = ?`, id)
	sup, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSupplier(r scanner) (types.Supplier, error) {
	var (
		sup     types.Supplier
		english sql.NullString
	)
	if err := r.Scan(&sup.ID, &sup.OfficialName, &english, &sup.NormalizedName, &sup.UsageCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sup, err
		}
		return sup, fmt.Errorf("scanning supplier: %w", err)
	}
	sup.EnglishName = english.String
	return sup, nil
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying supplier ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning supplier id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
