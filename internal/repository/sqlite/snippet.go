package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/tahmid/snippet-explorer/internal/apperror"
	"github.com/tahmid/snippet-explorer/internal/model"
	"github.com/tahmid/snippet-explorer/internal/repository"
)

// compile-time check that *DB implements repository.Remote
var _ repository.Remote = (*DB)(nil)

// ListForUser returns every snippet row belonging to userID, oldest first.
//
// Listing is always scoped by user id. Handing back the whole table would
// leak other accounts' snippets, so no unfiltered variant exists.
func (db *DB) ListForUser(ctx context.Context, userID string) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, code, user_id, created_at, updated_at
		 FROM snippets
		 WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets for user %s: %w", userID, err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Code, &s.UserID,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Insert writes one snippet row keyed by its existing client-generated id.
//
// The id is never regenerated here — promotion from local-only to
// account-backed keeps the id the snippet was born with.
func (db *DB) Insert(ctx context.Context, snippet *model.Snippet) error {
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, name, code, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Name,
		snippet.Code,
		snippet.UserID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting snippet %s: %w", snippet.ID, err)
	}

	return nil
}

// Update writes the client-writable fields plus a fresh updated_at.
// RowsAffected distinguishes "row missing" from a successful update.
func (db *DB) Update(ctx context.Context, id string, fields repository.UpdateFields) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET name = ?, code = ?, updated_at = ?
		 WHERE id = ?`,
		fields.Name,
		fields.Code,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// Delete removes a snippet row by id. Deleting an id that has no row is a
// no-op rather than an error: the store calls this defensively for ids it
// does not know to be local-only, and those may never have been saved.
func (db *DB) Delete(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}
	return nil
}

// BatchInsert writes all rows inside one transaction, upserting on id
// conflict.
//
// The upsert makes migration idempotent: if a previous attempt died at the
// transport layer after creating some rows, rerunning the migration
// converges on the same final state instead of failing on duplicate ids or
// leaving orphans behind. Either every row lands and the transaction
// commits, or the whole batch rolls back.
func (db *DB) BatchInsert(ctx context.Context, snippets []model.Snippet) error {
	if len(snippets) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning batch insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, s := range snippets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snippets (id, name, code, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				code = excluded.code,
				user_id = excluded.user_id,
				updated_at = excluded.updated_at`,
			s.ID, s.Name, s.Code, s.UserID, now, now,
		)
		if err != nil {
			return fmt.Errorf("sqlite: batch inserting snippet %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing batch insert: %w", err)
	}
	return nil
}
