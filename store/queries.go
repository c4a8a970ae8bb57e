package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"typereflect/schema"
)

// Info describes a stored schema.
type Info struct {
	Name      string
	Types     int
	CreatedAt time.Time
}

// TypeRow is the index entry of one stored type.
type TypeRow struct {
	Schema   string
	FQN      string
	Name     string
	Kind     schema.Kind
	PkgPath  string
	Exported bool
}

// SaveSchema stores s under name, replacing any schema of that name.
// The schema is flattened before it is written.
func (db *DB) SaveSchema(name string, s *schema.Schema) (err error) {
	flat := schema.Flatten(s)

	data, err := schema.Encode(flat, schema.FormatMsgpack)
	if err != nil {
		return fmt.Errorf("failed to encode schema %s: %w", name, err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := deleteRows(tx, name); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO schemas (name, format, data, created_at) VALUES (?, ?, ?, ?)`,
		name, string(schema.FormatMsgpack), data, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert schema %s: %w", name, err)
	}

	for position, key := range flat.Keys() {
		t := flat.Lookup(key)
		if _, err := tx.Exec(
			`INSERT INTO types (schema_name, position, fqn, name, kind, pkg_path, exported)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			name, position, key, t.Name, string(t.Kind), t.PkgPath, t.Visibility == schema.VisibilityExported,
		); err != nil {
			return fmt.Errorf("failed to insert type %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema %s: %w", name, err)
	}

	return nil
}

// LoadSchema returns the stored schema with placeholders resolved.
func (db *DB) LoadSchema(name string) (*schema.Schema, error) {
	var (
		format string
		data   []byte
	)

	err := db.conn.QueryRow(`SELECT format, data FROM schemas WHERE name = ?`, name).Scan(&format, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	f, err := schema.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	s, err := schema.Load(data, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}

	return s, nil
}

// ListSchemas returns the stored schemas ordered by name.
func (db *DB) ListSchemas() ([]Info, error) {
	rows, err := db.conn.Query(
		`SELECT s.name, s.created_at, (SELECT COUNT(*) FROM types t WHERE t.schema_name = s.name)
		 FROM schemas s
		 ORDER BY s.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var out []Info

	for rows.Next() {
		var (
			info    Info
			created int64
		)

		if err := rows.Scan(&info.Name, &created, &info.Types); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}

		info.CreatedAt = time.Unix(created, 0)
		out = append(out, info)
	}

	return out, rows.Err()
}

// DeleteSchema removes a stored schema.
func (db *DB) DeleteSchema(name string) (err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM types WHERE schema_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete types of %s: %w", name, err)
	}

	res, err := tx.Exec(`DELETE FROM schemas WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete schema %s: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete schema %s: %w", name, err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion of %s: %w", name, err)
	}

	return nil
}

// FindTypes returns stored types whose FQN contains pattern. The pattern is
// matched literally; "%" and "_" are not wildcards. Results are sorted by
// match quality: exact short name, FQN ending with the pattern, then FQN
// containing it; shorter FQNs first.
func (db *DB) FindTypes(pattern string) ([]TypeRow, error) {
	escaped := likeEscaper.Replace(pattern)

	rows, err := db.conn.Query(
		`SELECT schema_name, fqn, name, kind, pkg_path, exported FROM types
		 WHERE fqn LIKE ? ESCAPE '\'
		 ORDER BY
			CASE
				WHEN name = ? OR fqn LIKE '%.' || ? ESCAPE '\' THEN 0
				WHEN fqn LIKE '%' || ? ESCAPE '\' THEN 1
				ELSE 2
			END,
			length(fqn) ASC,
			schema_name ASC`,
		"%"+escaped+"%", pattern, escaped, escaped,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find types: %w", err)
	}
	defer rows.Close()

	var out []TypeRow

	for rows.Next() {
		var (
			r    TypeRow
			kind string
		)

		if err := rows.Scan(&r.Schema, &r.FQN, &r.Name, &kind, &r.PkgPath, &r.Exported); err != nil {
			return nil, fmt.Errorf("failed to scan type row: %w", err)
		}

		r.Kind = schema.Kind(kind)
		out = append(out, r)
	}

	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func deleteRows(tx *sql.Tx, name string) error {
	if _, err := tx.Exec(`DELETE FROM types WHERE schema_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete types of %s: %w", name, err)
	}

	if _, err := tx.Exec(`DELETE FROM schemas WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete schema %s: %w", name, err)
	}

	return nil
}
