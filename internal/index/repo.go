package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// FileRow represents a row in the files table.
type FileRow struct {
	Path       string
	Name       string
	NameKey    string // lower-cased page name used for link resolution
	Type       models.FileType
	Checksum   string
	Size       int64
	ModifiedAt time.Time
	JournalKey string // page-title-formatted key, empty for non-journals
}

// ElementRow is one extracted element occurrence.
type ElementRow struct {
	Category string
	Name     string
	Value    string
}

// LinkRow is one outgoing reference from a file.
type LinkRow struct {
	Target string
	Kind   string
}

// DanglingRow is an unresolved reference target with its occurrence count.
type DanglingRow struct {
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// TimelineRow is one reconstructed timeline day.
type TimelineRow struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// UpsertFile replaces a file row together with its elements and links in one
// transaction.
func (db *DB) UpsertFile(row FileRow, elements []ElementRow, links []LinkRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO files (path, name, name_key, type, checksum, size, modified_at, journal_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name        = excluded.name,
			name_key    = excluded.name_key,
			type        = excluded.type,
			checksum    = excluded.checksum,
			size        = excluded.size,
			modified_at = excluded.modified_at,
			journal_key = excluded.journal_key
	`, row.Path, row.Name, row.NameKey, string(row.Type), row.Checksum, row.Size, row.ModifiedAt, row.JournalKey)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}

	_, _ = tx.Exec(`DELETE FROM elements WHERE file_path = ?`, row.Path)
	if len(elements) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO elements (file_path, category, name, value) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare element insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range elements {
			if _, err := stmt.Exec(row.Path, e.Category, e.Name, e.Value); err != nil {
				return fmt.Errorf("index: insert element: %w", err)
			}
		}
	}

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, row.Path)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO links (source, target, kind) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.Exec(row.Path, l.Target, l.Kind); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a file row with its elements and links.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM elements WHERE file_path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM files WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns path → checksum for every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
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

// JournalKeys returns every journal key string, unsorted.
func (db *DB) JournalKeys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT journal_key FROM files WHERE journal_key != ''`)
	if err != nil {
		return nil, fmt.Errorf("index: journal keys: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Dangling returns link targets that resolve to no file name, with
// occurrence counts, most-referenced first.
func (db *DB) Dangling() ([]DanglingRow, error) {
	rows, err := db.conn.Query(`
		SELECT target, COUNT(*) AS n FROM links
		WHERE target NOT IN (SELECT name_key FROM files)
		GROUP BY target
		ORDER BY n DESC, target ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("index: dangling: %w", err)
	}
	defer rows.Close()
	var out []DanglingRow
	for rows.Next() {
		var d DanglingRow
		if err := rows.Scan(&d.Target, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplaceTimeline swaps in the latest reconstructed timeline.
func (db *DB) ReplaceTimeline(entries []TimelineRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM timeline`); err != nil {
		return fmt.Errorf("index: clear timeline: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO timeline (date, status) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare timeline insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(e.Date, e.Status); err != nil {
			return fmt.Errorf("index: insert timeline day: %w", err)
		}
	}
	return tx.Commit()
}

// Timeline returns the stored timeline, date-ordered ascending.
func (db *DB) Timeline() ([]TimelineRow, error) {
	rows, err := db.conn.Query(`SELECT date, status FROM timeline ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("index: timeline: %w", err)
	}
	defer rows.Close()
	var out []TimelineRow
	for rows.Next() {
		var r TimelineRow
		if err := rows.Scan(&r.Date, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListFiles returns file rows, optionally filtered by type, path-ordered.
func (db *DB) ListFiles(fileType string, limit, offset int) ([]FileRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if fileType != "" {
		where = `WHERE type = ?`
		args = append(args, fileType)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM files `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count files: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`
		SELECT path, name, name_key, type, checksum, size, modified_at, journal_key
		FROM files `+where+` ORDER BY path ASC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		var typ string
		if err := rows.Scan(&r.Path, &r.Name, &r.NameKey, &typ, &r.Checksum, &r.Size, &r.ModifiedAt, &r.JournalKey); err != nil {
			return nil, 0, err
		}
		r.Type = models.FileType(typ)
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// GetFile returns one file row, or apperr.ErrNotFound when absent.
func (db *DB) GetFile(path string) (*FileRow, error) {
	var r FileRow
	var typ string
	err := db.conn.QueryRow(`
		SELECT path, name, name_key, type, checksum, size, modified_at, journal_key
		FROM files WHERE path = ?`, path).
		Scan(&r.Path, &r.Name, &r.NameKey, &typ, &r.Checksum, &r.Size, &r.ModifiedAt, &r.JournalKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	r.Type = models.FileType(typ)
	return &r, nil
}

// FileElements returns the extracted elements of one file.
func (db *DB) FileElements(path string) ([]ElementRow, error) {
	rows, err := db.conn.Query(`SELECT category, name, value FROM elements WHERE file_path = ? ORDER BY category, name`, path)
	if err != nil {
		return nil, fmt.Errorf("index: file elements: %w", err)
	}
	defer rows.Close()
	var out []ElementRow
	for rows.Next() {
		var e ElementRow
		if err := rows.Scan(&e.Category, &e.Name, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SearchHit is one element search result.
type SearchHit struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SearchElements finds element values matching a substring.
func (db *DB) SearchElements(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT file_path, name, value FROM elements
		WHERE value LIKE '%' || ? || '%'
		ORDER BY file_path LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search elements: %w", err)
	}
	defer rows.Close()
	var out []SearchHit
	for rows.Next() {
		var r SearchHit
		if err := rows.Scan(&r.Path, &r.Name, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ElementCounts aggregates element occurrences by name.
func (db *DB) ElementCounts() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT name, COUNT(*) FROM elements GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("index: element counts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}

// CountFilesByType aggregates the files table by type.
func (db *DB) CountFilesByType() (map[string]int, int, error) {
	rows, err := db.conn.Query(`SELECT type, COUNT(*) FROM files GROUP BY type`)
	if err != nil {
		return nil, 0, fmt.Errorf("index: count by type: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	total := 0
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, 0, err
		}
		out[typ] = n
		total += n
	}
	return out, total, rows.Err()
}
