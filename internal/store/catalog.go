package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/ospsys/internal/compiler"
	"github.com/roach88/ospsys/internal/structure"
)

// ErrNotFound is returned when no structure is stored under a name.
var ErrNotFound = errors.New("system structure not found")

// Record describes one stored structure without its document.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	Revision    int64  `json:"revision"`
}

// Save stores s under name, replacing any structure already stored there.
// The record keeps its ID across replacements; its revision advances only
// when the fingerprint changes.
func (s *Store) Save(ctx context.Context, name string, sys *structure.SystemStructure) (Record, error) {
	if name == "" {
		return Record{}, fmt.Errorf("save: name is required")
	}

	doc, err := structure.MarshalCanonical(sys.ToDict())
	if err != nil {
		return Record{}, fmt.Errorf("save %q: %w", name, err)
	}
	fingerprint, err := structure.Fingerprint(sys)
	if err != nil {
		return Record{}, fmt.Errorf("save %q: %w", name, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("save %q: generate id: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("save %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO system_structures (id, name, fingerprint, document, revision)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			revision = CASE
				WHEN system_structures.fingerprint = excluded.fingerprint
				THEN system_structures.revision
				ELSE system_structures.revision + 1
			END,
			fingerprint = excluded.fingerprint
	`,
		id.String(),
		name,
		fingerprint,
		string(doc),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save %q: %w", name, err)
	}

	rec, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, revision
		FROM system_structures
		WHERE name = ?
	`, name))
	if err != nil {
		return Record{}, fmt.Errorf("save %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("save %q: commit: %w", name, err)
	}

	slog.Debug("structure stored",
		"name", rec.Name,
		"id", rec.ID,
		"fingerprint", rec.Fingerprint,
		"revision", rec.Revision,
	)
	return rec, nil
}

// Load returns the structure stored under name. The document is rebuilt
// through structure.FromDict and must reproduce the stored fingerprint.
func (s *Store) Load(ctx context.Context, name string) (*structure.SystemStructure, Record, error) {
	var (
		rec Record
		doc string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, revision, document
		FROM system_structures
		WHERE name = ?
	`, name).Scan(&rec.ID, &rec.Name, &rec.Fingerprint, &rec.Revision, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("load %q: %w", name, err)
	}

	dict, err := compiler.DecodeJSON([]byte(doc))
	if err != nil {
		return nil, Record{}, fmt.Errorf("load %q: %w", name, err)
	}
	sys, err := structure.FromDict(dict)
	if err != nil {
		return nil, Record{}, fmt.Errorf("load %q: %w", name, err)
	}

	fingerprint, err := structure.Fingerprint(sys)
	if err != nil {
		return nil, Record{}, fmt.Errorf("load %q: %w", name, err)
	}
	if fingerprint != rec.Fingerprint {
		return nil, Record{}, fmt.Errorf("load %q: document fingerprint %s does not match stored %s", name, fingerprint, rec.Fingerprint)
	}

	return sys, rec, nil
}

// List returns every record ordered by name.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.queryRecords(ctx, `
		SELECT id, name, fingerprint, revision
		FROM system_structures
		ORDER BY name COLLATE BINARY ASC
	`)
}

// FindByFingerprint returns the records whose document has fingerprint,
// ordered by name.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) ([]Record, error) {
	return s.queryRecords(ctx, `
		SELECT id, name, fingerprint, revision
		FROM system_structures
		WHERE fingerprint = ?
		ORDER BY name COLLATE BINARY ASC
	`, fingerprint)
}

// Delete removes the structure stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM system_structures WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: rows affected: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	slog.Debug("structure deleted", "name", name)
	return nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Fingerprint, &rec.Revision); err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}
	return rec, nil
}
