// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Catalog is the YAML seed format of the supplier database.
type Catalog struct {
	Suppliers []CatalogSupplier `yaml:"suppliers"`
	Overrides []CatalogOverride `yaml:"overrides,omitempty"`
	Feedback  []CatalogFeedback `yaml:"feedback,omitempty"`
	Decisions []CatalogDecision `yaml:"decisions,omitempty"`
}

// CatalogSupplier is one supplier with its alternate spellings.
type CatalogSupplier struct {
	ID           string   `yaml:"id"`
	OfficialName string   `yaml:"official_name"`
	EnglishName  string   `yaml:"english_name,omitempty"`
	UsageCount   int      `yaml:"usage_count,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
}

// CatalogOverride maps a raw input to a supplier unconditionally.
type CatalogOverride struct {
	Input      string `yaml:"input"`
	SupplierID string `yaml:"supplier_id"`
	Reason     string `yaml:"reason,omitempty"`
	CreatedBy  string `yaml:"created_by,omitempty"`
}

// CatalogFeedback records user confirmations and rejections for an input.
type CatalogFeedback struct {
	Input         string `yaml:"input"`
	SupplierID    string `yaml:"supplier_id"`
	Confirmations int    `yaml:"confirmations,omitempty"`
	Rejections    int    `yaml:"rejections,omitempty"`
}

// CatalogDecision records how often an input was resolved to a supplier.
type CatalogDecision struct {
	Input      string `yaml:"input"`
	SupplierID string `yaml:"supplier_id"`
	Count      int    `yaml:"count"`
}

// ImportSummary holds counts from a catalog import.
type ImportSummary struct {
	Suppliers int
	Aliases   int
	Overrides int
	Feedback  int
	Decisions int
}

// LoadCatalog reads a catalog YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &c, nil
}

// Import loads c into the database in one transaction. Suppliers and
// overrides are upserted and aliases are deduplicated. A feedback or
// decision entry replaces the stored counts for its input and supplier,
// so importing an export of the same database changes nothing. Every name
// is normalized before it is stored.
func (s *Store) Import(ctx context.Context, c *Catalog, w io.Writer) (ImportSummary, error) {
	var sum ImportSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sup := range c.Suppliers {
		if sup.ID == "" || sup.OfficialName == "" {
			return sum, fmt.Errorf("supplier %q: id and official_name are required", sup.ID)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO suppliers (id, official_name, english_name, normalized_name, usage_count)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				official_name=excluded.official_name, english_name=excluded.english_name,
				normalized_name=excluded.normalized_name, usage_count=excluded.usage_count`,
			sup.ID, sup.OfficialName, nullString(sup.EnglishName),
			s.normalizer.Normalize(sup.OfficialName), sup.UsageCount,
		)
		if err != nil {
			return sum, fmt.Errorf("upserting supplier %s: %w", sup.ID, err)
		}
		sum.Suppliers++

		for _, alias := range sup.Aliases {
			n, err := insertAlias(ctx, tx, s.normalizer.Normalize(alias), sup.ID)
			if err != nil {
				return sum, fmt.Errorf("inserting alias %q for %s: %w", alias, sup.ID, err)
			}
			sum.Aliases += n
		}
	}

	for _, o := range c.Overrides {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO overrides (normalized_input, supplier_id, reason, created_by)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(normalized_input) DO UPDATE SET
				supplier_id=excluded.supplier_id, reason=excluded.reason, created_by=excluded.created_by`,
			s.normalizer.Normalize(o.Input), o.SupplierID, nullString(o.Reason), nullString(o.CreatedBy),
		)
		if err != nil {
			return sum, fmt.Errorf("upserting override %q: %w", o.Input, err)
		}
		sum.Overrides++
	}

	for _, f := range c.Feedback {
		key := s.normalizer.Normalize(f.Input)
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM learning_feedback WHERE normalized_input = ? AND supplier_id = ?`,
			key, f.SupplierID); err != nil {
			return sum, fmt.Errorf("replacing feedback %q: %w", f.Input, err)
		}
		if err := repeatInsert(ctx, tx, f.Confirmations,
			`INSERT INTO learning_feedback (normalized_input, supplier_id, action) VALUES (?, ?, 'confirm')`,
			key, f.SupplierID); err != nil {
			return sum, fmt.Errorf("inserting feedback %q: %w", f.Input, err)
		}
		if err := repeatInsert(ctx, tx, f.Rejections,
			`INSERT INTO learning_feedback (normalized_input, supplier_id, action) VALUES (?, ?, 'reject')`,
			key, f.SupplierID); err != nil {
			return sum, fmt.Errorf("inserting feedback %q: %w", f.Input, err)
		}
		sum.Feedback += f.Confirmations + f.Rejections
	}

	for _, d := range c.Decisions {
		key := s.normalizer.Normalize(d.Input)
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM decisions WHERE normalized_input = ? AND supplier_id = ?`,
			key, d.SupplierID); err != nil {
			return sum, fmt.Errorf("replacing decisions %q: %w", d.Input, err)
		}
		if err := repeatInsert(ctx, tx, d.Count,
			`INSERT INTO decisions (normalized_input, supplier_id) VALUES (?, ?)`,
			key, d.SupplierID); err != nil {
			return sum, fmt.Errorf("inserting decisions %q: %w", d.Input, err)
		}
		sum.Decisions += d.Count
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "suppliers: %d, aliases: %d, overrides: %d, feedback: %d, decisions: %d\n",
		sum.Suppliers, sum.Aliases, sum.Overrides, sum.Feedback, sum.Decisions)
	return sum, nil
}

func insertAlias(ctx context.Context, tx *sql.Tx, normalized, supplierID string) (int, error) {
	if normalized == "" {
		return 0, nil
	}
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO supplier_aliases (normalized_alias, supplier_id) VALUES (?, ?)`,
		normalized, supplierID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func repeatInsert(ctx context.Context, tx *sql.Tx, n int, query string, args ...any) error {
	if n <= 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for range n {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the database contents as catalog YAML. Feedback and
// decisions are written in aggregated form keyed by normalized input.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	c, err := s.catalog(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

func (s *Store) catalog(ctx context.Context) (*Catalog, error) {
	suppliers, err := s.AllSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	aliases := make(map[string][]string)
	if err := s.eachRow(ctx,
		`SELECT supplier_id, normalized_alias FROM supplier_aliases ORDER BY supplier_id, normalized_alias`,
		func(r *sql.Rows) error {
			var id, alias string
			if err := r.Scan(&id, &alias); err != nil {
				return err
			}
			aliases[id] = append(aliases[id], alias)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("exporting aliases: %w", err)
	}

	c := &Catalog{}
	for _, sup := range suppliers {
		c.Suppliers = append(c.Suppliers, CatalogSupplier{
			ID:           sup.ID,
			OfficialName: sup.OfficialName,
			EnglishName:  sup.EnglishName,
			UsageCount:   sup.UsageCount,
			Aliases:      aliases[sup.ID],
		})
	}

	if err := s.eachRow(ctx,
		`SELECT normalized_input, supplier_id, COALESCE(reason, ''), COALESCE(created_by, '')
		FROM overrides ORDER BY normalized_input`,
		func(r *sql.Rows) error {
			var o CatalogOverride
			if err := r.Scan(&o.Input, &o.SupplierID, &o.Reason, &o.CreatedBy); err != nil {
				return err
			}
			c.Overrides = append(c.Overrides, o)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("exporting overrides: %w", err)
	}

	if err := s.eachRow(ctx,
		`SELECT normalized_input, supplier_id,
			SUM(CASE WHEN action = 'confirm' THEN 1 ELSE 0 END),
			SUM(CASE WHEN action = 'reject' THEN 1 ELSE 0 END)
		FROM learning_feedback
		GROUP BY normalized_input, supplier_id
		ORDER BY normalized_input, supplier_id`,
		func(r *sql.Rows) error {
			var f CatalogFeedback
			if err := r.Scan(&f.Input, &f.SupplierID, &f.Confirmations, &f.Rejections); err != nil {
				return err
			}
			c.Feedback = append(c.Feedback, f)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("exporting feedback: %w", err)
	}

	if err := s.eachRow(ctx,
		`SELECT normalized_input, supplier_id, COUNT(*) FROM decisions
		GROUP BY normalized_input, supplier_id
		ORDER BY normalized_input, supplier_id`,
		func(r *sql.Rows) error {
			var d CatalogDecision
			if err := r.Scan(&d.Input, &d.SupplierID, &d.Count); err != nil {
				return err
			}
			c.Decisions = append(c.Decisions, d)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("exporting decisions: %w", err)
	}

	return c, nil
}

func (s *Store) eachRow(ctx context.Context, query string, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
