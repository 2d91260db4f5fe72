package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/atelier/internal/content"
)

var _ content.Backend = (*Store)(nil)

// Revision is one entry of the write log.
type Revision struct {
	Seq     int64  `json:"seq"`
	Key     string `json:"key"`
	Size    int    `json:"size"`
	Removed bool   `json:"removed,omitempty"`
}

// GetItem returns the current value for key.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem overwrites the value for key and appends a revision.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set item %q: begin tx: %w", key, err)
	}
	defer tx.Rollback() // No-op if committed

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (key, value, seq) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, seq = excluded.seq
	`, key, value, seq)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}

	if err := appendRevision(ctx, tx, seq, key, len(value), false); err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set item %q: commit: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error and does
// not append a revision.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("remove item %q: begin tx: %w", key, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	if n == 0 {
		return nil
	}

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	if err := appendRevision(ctx, tx, seq, key, 0, true); err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remove item %q: commit: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys in binary order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM items ORDER BY key COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// History returns the most recent revisions for key, newest last.
// limit <= 0 returns every revision.
func (s *Store) History(ctx context.Context, key string, limit int) ([]Revision, error) {
	query := `
		SELECT seq, key, size, removed FROM (
			SELECT seq, key, size, removed FROM item_revisions
			WHERE key = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	revs := []Revision{}
	for rows.Next() {
		var r Revision
		var removed int
		if err := rows.Scan(&r.Seq, &r.Key, &r.Size, &removed); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.Removed = removed == 1
		revs = append(revs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return revs, nil
}

// nextSeq allocates the next logical sequence number inside tx.
func nextSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM item_revisions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate seq: %w", err)
	}
	return seq, nil
}

func appendRevision(ctx context.Context, tx *sql.Tx, seq int64, key string, size int, removed bool) error {
	flag := 0
	if removed {
		flag = 1
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO item_revisions (seq, key, size, removed) VALUES (?, ?, ?, ?)
	`, seq, key, size, flag)
	if err != nil {
		return fmt.Errorf("append revision: %w", err)
	}
	return nil
}
