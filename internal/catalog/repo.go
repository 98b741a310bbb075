package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DocRow represents a row in the documents table. Path is the vault-relative
// file path (directory/name.json); Directory and Name are its logical parts.
type DocRow struct {
	Path      string
	Directory string
	Name      string
	Checksum  string
	Size      int64
	UpdatedAt time.Time
}

// Upsert inserts or replaces a document row.
func (db *DB) Upsert(row DocRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO documents (path, directory, name, checksum, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			directory  = excluded.directory,
			name       = excluded.name,
			checksum   = excluded.checksum,
			size       = excluded.size,
			updated_at = excluded.updated_at
	`, row.Path, row.Directory, row.Name, row.Checksum, row.Size, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert document: %w", err)
	}
	return nil
}

// Delete removes a document row. Deleting an absent row is not an error.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("catalog: delete document: %w", err)
	}
	return nil
}

// Get returns one document row, or nil when the path is not cataloged.
func (db *DB) Get(path string) (*DocRow, error) {
	var row DocRow
	err := db.conn.QueryRow(`
		SELECT path, directory, name, checksum, size, updated_at
		FROM documents WHERE path = ?
	`, path).Scan(&row.Path, &row.Directory, &row.Name, &row.Checksum, &row.Size, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get document: %w", err)
	}
	return &row, nil
}

// List returns rows ordered by most recently updated, optionally filtered to
// one directory, plus the total matching count for pagination.
func (db *DB) List(directory string, limit, offset int) ([]DocRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where, args := "", []any{}
	if directory != "" {
		where = "WHERE directory = ?"
		args = append(args, directory)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count documents: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT path, directory, name, checksum, size, updated_at
		FROM documents %s
		ORDER BY updated_at DESC, path ASC
		LIMIT ? OFFSET ?
	`, where)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocRow
	for rows.Next() {
		var r DocRow
		if err := rows.Scan(&r.Path, &r.Directory, &r.Name, &r.Checksum, &r.Size, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// AllChecksums returns every cataloged path mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
