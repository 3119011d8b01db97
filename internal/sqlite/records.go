package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound indicates the namespace holds no record.
var ErrNotFound = errors.New("record not found")

// RecordStore reads and writes one value per namespace.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// Get retrieves the record stored under ns.
func (r *RecordStore) Get(ctx context.Context, ns string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE ns = ?`, ns).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get record: %w", err)
	}
	return value, nil
}

// Put stores value under ns, replacing any previous record.
func (r *RecordStore) Put(ctx context.Context, ns, value string) error {
	query := `
		INSERT INTO records (ns, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ns) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, ns, value); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

// Delete removes the record under ns. Deleting a missing record is not an
// error.
func (r *RecordStore) Delete(ctx context.Context, ns string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE ns = ?`, ns); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
