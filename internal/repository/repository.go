// Package repository declares the persistence contracts consumed by the
// snippet store and the auth service. Concrete implementations live in the
// subpackages: sqlite (the account database) and localfile (the
// browser-profile-scoped blob).
package repository

import (
	"context"

	"github.com/tahmid/snippet-explorer/internal/model"
)

// Local is the browser-profile-scoped blob store. It holds the serialized
// list of snippets that are not yet account-backed. Both operations are
// synchronous; failures here are logged by the caller and never treated as
// fatal.
type Local interface {
	// Read returns the stored snippet list. An absent or unparsable blob
	// is reported as an empty list, not an error.
	Read() ([]model.Snippet, error)
	Write(snippets []model.Snippet) error
}

// UpdateFields carries the column values for a partial remote update.
// Only name and code are client-writable; UpdatedAt is stamped by the
// implementation on every update.
type UpdateFields struct {
	Name string
	Code string
}

// Remote is the account-scoped record store, one row per snippet, keyed by
// id and foreign-keyed to a user. It is reachable only while a session
// exists; every call may fail with a transport or authorization error,
// which the store surfaces to the user without retrying.
type Remote interface {
	// ListForUser returns all snippet rows belonging to userID. Listing is
	// always per-user; there is no unfiltered variant.
	ListForUser(ctx context.Context, userID string) ([]model.Snippet, error)
	Insert(ctx context.Context, snippet *model.Snippet) error
	Update(ctx context.Context, id string, fields UpdateFields) error
	Delete(ctx context.Context, id string) error
	// BatchInsert inserts all rows in a single transaction, upserting on id
	// conflict so a retried migration converges instead of duplicating rows.
	BatchInsert(ctx context.Context, snippets []model.Snippet) error
}

// UserRepository persists user accounts for both sign-in paths.
type UserRepository interface {
	// Upsert inserts a user on first GitHub login and refreshes their
	// profile on subsequent logins, keyed by github_id.
	Upsert(ctx context.Context, user *model.User) error
	// CreateWithPassword inserts a new email/password user. Returns a
	// conflict error if the email is already registered.
	CreateWithPassword(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
