// Package store implements the snippet store — the authoritative in-memory
// snippet list merged from two sources of truth.
//
// Snippets live in one of two places: the local blob (browser-profile
// scoped, no account required) or the account database (one row per
// snippet, keyed to a user). The store owns the merged view of both, plus
// the set of ids that exist only locally, and keeps all three — memory,
// local blob, account database — consistent across every mutation.
//
// Provenance is a one-way street: a snippet starts local-only and becomes
// account-backed exactly once, through SaveNew or Migrate. It never goes
// back.
//
// The store is built once with injected persistence adapters and handed
// by reference to its consumers; there is no package-level state. A mutex
// serializes operations, so interleaved calls cannot corrupt the list —
// though between two racing updates to the same snippet, the last writer
// still wins. The intended usage is a single interactive user.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tahmid/snippet-explorer/internal/apperror"
	"github.com/tahmid/snippet-explorer/internal/model"
	"github.com/tahmid/snippet-explorer/internal/repository"
)

// Store maintains the merged, de-duplicated snippet list and the
// local-only id set.
type Store struct {
	local  repository.Local
	remote repository.Remote
	logger *slog.Logger

	mu        sync.Mutex
	snippets  []model.Snippet
	localOnly map[string]bool
	userID    string // empty when signed out
}

// New creates a Store with the given persistence adapters. The store is
// empty until the first Load.
func New(local repository.Local, remote repository.Remote, logger *slog.Logger) *Store {
	return &Store{
		local:     local,
		remote:    remote,
		logger:    logger,
		snippets:  []model.Snippet{},
		localOnly: map[string]bool{},
	}
}

// Load rebuilds the in-memory list from both sources. Call it once at
// startup and again whenever the session fact changes (sign-in, sign-out,
// account switch); userID is empty when no user is signed in.
//
// Signed out, the merged list is simply the local blob and every id is
// local-only. Signed in, the account rows win: the merged list is the
// remote rows plus any local snippet whose id the account does not
// already have, and only those leftover ids stay local-only.
//
// A missing or unparsable local blob is never fatal — it reads as empty.
// A failed account query degrades to the local view and returns the error
// so the caller can tell the user, but the store stays usable.
func (s *Store) Load(ctx context.Context, userID string) error {
	localData, err := s.local.Read()
	if err != nil {
		s.logger.Warn("failed to read local snippets, continuing with none",
			slog.String("error", err.Error()),
		)
		localData = []model.Snippet{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID

	if userID == "" {
		s.snippets = localData
		s.localOnly = idSet(localData)
		return nil
	}

	remoteData, err := s.remote.ListForUser(ctx, userID)
	if err != nil {
		// Degraded mode: show what the local blob has, all of it
		// local-only, and surface the failure.
		s.snippets = localData
		s.localOnly = idSet(localData)
		s.logger.Error("failed to load snippets from account",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return apperror.Remote("load snippets", err)
	}

	// Remote wins on id collision; the local copy is dropped from the
	// merged view (it stays in the blob until the next mutation rewrites
	// the local-only subset).
	merged := make([]model.Snippet, 0, len(remoteData)+len(localData))
	merged = append(merged, remoteData...)
	remoteIDs := idSet(remoteData)

	localOnly := map[string]bool{}
	for _, snippet := range localData {
		if remoteIDs[snippet.ID] {
			continue
		}
		merged = append(merged, snippet)
		localOnly[snippet.ID] = true
	}

	s.snippets = merged
	s.localOnly = localOnly

	s.logger.Info("snippets loaded",
		slog.Int("total", len(merged)),
		slog.Int("localOnly", len(localOnly)),
		slog.String("userID", userID),
	)
	return nil
}

// Create appends a fresh snippet to the list: new uuid, a default name
// derived from the current list length, empty code. The snippet starts
// local-only regardless of session; it reaches the account only through
// SaveNew or Migrate.
//
// The default name can collide with earlier snippets after deletes or
// renames ("Snippet 3" twice). That is fine — names are labels, ids are
// identity.
func (s *Store) Create(ctx context.Context) (*model.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snippet := model.Snippet{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Snippet %d", len(s.snippets)+1),
		Code: "",
	}

	s.snippets = append(s.snippets, snippet)
	s.localOnly[snippet.ID] = true
	s.persistLocalLocked()

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("name", snippet.Name),
	)

	out := snippet
	return &out, nil
}

// Update merges the supplied changes over the existing record. Fields left
// nil are preserved — this is a partial update, not a replace.
//
// Supplying a name that trims to empty is a validation error and mutates
// nothing; the rename-to-empty-deletes rule belongs to Rename, not here.
// If the target is account-backed, the account row is updated first and a
// failure there aborts the whole operation with the in-memory list
// untouched.
func (s *Store) Update(ctx context.Context, id string, changes model.SnippetChanges) (*model.Snippet, error) {
	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		return nil, apperror.ValidationFailed("name", "snippet name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, apperror.NotFound("snippet", id)
	}

	updated := s.snippets[idx]
	if changes.Name != nil {
		updated.Name = *changes.Name
	}
	if changes.Code != nil {
		updated.Code = *changes.Code
	}

	if s.accountBackedLocked(id) {
		err := s.remote.Update(ctx, id, repository.UpdateFields{
			Name: updated.Name,
			Code: updated.Code,
		})
		if err != nil {
			return nil, apperror.Remote("update snippet", err)
		}
	}

	s.snippets[idx] = updated
	s.persistLocalLocked()

	out := updated
	return &out, nil
}

// Rename handles the rename flow: a name that trims to empty means
// "delete this snippet", anything else is a plain name update.
// The boolean reports whether the snippet was deleted.
func (s *Store) Rename(ctx context.Context, id, name string) (*model.Snippet, bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		if err := s.Delete(ctx, id); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	snippet, err := s.Update(ctx, id, model.SnippetChanges{Name: &trimmed})
	if err != nil {
		return nil, false, err
	}
	return snippet, false, nil
}

// SaveNew promotes the snippet with the given id to account-backed: it
// inserts an account row keyed by the snippet's existing id and drops the
// id from the local-only set. List membership does not change — only
// provenance does.
//
// Both name and code must be non-empty at the moment of first persisting;
// either being empty fails validation before any I/O. Without a session
// the result is (false, nil): not an error, the snippet simply stays
// local-only and no account call is attempted.
func (s *Store) SaveNew(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false, apperror.NotFound("snippet", id)
	}

	snippet := s.snippets[idx]
	if strings.TrimSpace(snippet.Name) == "" {
		return false, apperror.ValidationFailed("name", "snippet name cannot be empty")
	}
	if strings.TrimSpace(snippet.Code) == "" {
		return false, apperror.ValidationFailed("code", "snippet code cannot be empty")
	}

	if s.userID == "" {
		return false, nil
	}

	row := snippet
	row.UserID = s.userID
	if err := s.remote.Insert(ctx, &row); err != nil {
		return false, apperror.Remote("save snippet", err)
	}

	s.snippets[idx] = row
	delete(s.localOnly, id)
	s.persistLocalLocked()

	s.logger.Info("snippet saved to account",
		slog.String("id", id),
		slog.String("userID", s.userID),
	)
	return true, nil
}

// Delete removes the snippet everywhere it lives. For an account-backed
// id the account row goes first; a failure there aborts with the
// in-memory list untouched. Ids the store does not know to be local-only
// still get the account delete attempt — deleting a nonexistent row is a
// no-op on the other side, so this is safe and covers any bookkeeping
// drift.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountBackedLocked(id) {
		if err := s.remote.Delete(ctx, id); err != nil {
			return apperror.Remote("delete snippet", err)
		}
	}

	if idx := s.indexLocked(id); idx >= 0 {
		s.snippets = append(s.snippets[:idx], s.snippets[idx+1:]...)
	}
	delete(s.localOnly, id)
	s.persistLocalLocked()

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// Migrate batch-inserts every local-only snippet into the account and
// clears the local-only set. It is a no-op without a session or without
// local-only snippets. The batch is all-or-nothing from this side: any
// failure clears no ids, so callers observe migration failure as "nothing
// migrated" rather than a silent partial clear. Returns how many
// snippets moved.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" || len(s.localOnly) == 0 {
		return 0, nil
	}

	batch := make([]model.Snippet, 0, len(s.localOnly))
	for _, snippet := range s.snippets {
		if s.localOnly[snippet.ID] {
			row := snippet
			row.UserID = s.userID
			batch = append(batch, row)
		}
	}

	if err := s.remote.BatchInsert(ctx, batch); err != nil {
		return 0, apperror.Remote("migrate local snippets", err)
	}

	for _, row := range batch {
		if idx := s.indexLocked(row.ID); idx >= 0 {
			s.snippets[idx] = row
		}
	}
	s.localOnly = map[string]bool{}
	s.persistLocalLocked()

	s.logger.Info("local snippets migrated to account",
		slog.Int("count", len(batch)),
		slog.String("userID", s.userID),
	)
	return len(batch), nil
}

// Snippets returns a copy of the merged list.
func (s *Store) Snippets() []model.Snippet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Snippet, len(s.snippets))
	copy(out, s.snippets)
	return out
}

// Get returns the snippet with the given id, or a not-found error.
func (s *Store) Get(id string) (*model.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, apperror.NotFound("snippet", id)
	}
	out := s.snippets[idx]
	return &out, nil
}

// LocalOnlyIDs returns the ids that exist only in local persistence, in
// list order.
func (s *Store) LocalOnlyIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.localOnly))
	for _, snippet := range s.snippets {
		if s.localOnly[snippet.ID] {
			ids = append(ids, snippet.ID)
		}
	}
	return ids
}

// IsLocalOnly reports whether the id exists only in local persistence.
func (s *Store) IsLocalOnly(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localOnly[id]
}

// HasLocalOnly reports whether any local-only snippets exist — the
// condition for offering migration after sign-in.
func (s *Store) HasLocalOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.localOnly) > 0
}

// CurrentUser returns the user id of the loaded session, or empty when
// signed out.
func (s *Store) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// persistLocalLocked rewrites the local blob after a mutation: the whole
// list when signed out (everything is local-only then), otherwise just
// the local-only subset. Account-backed snippets never land in the blob
// while a session exists, so switching accounts or signing out cannot
// resurrect stale account data as local.
//
// Local write failures are logged and swallowed — the app keeps running
// on the in-memory state.
func (s *Store) persistLocalLocked() {
	var toWrite []model.Snippet
	if s.userID == "" {
		toWrite = s.snippets
	} else {
		for _, snippet := range s.snippets {
			if s.localOnly[snippet.ID] {
				toWrite = append(toWrite, snippet)
			}
		}
	}

	if err := s.local.Write(toWrite); err != nil {
		s.logger.Warn("failed to write local snippets",
			slog.String("error", err.Error()),
		)
	}
}

// accountBackedLocked reports whether id should be treated as having an
// account row: a session exists and the id is not known local-only.
func (s *Store) accountBackedLocked(id string) bool {
	return s.userID != "" && !s.localOnly[id]
}

func (s *Store) indexLocked(id string) int {
	for i := range s.snippets {
		if s.snippets[i].ID == id {
			return i
		}
	}
	return -1
}

func idSet(snippets []model.Snippet) map[string]bool {
	set := make(map[string]bool, len(snippets))
	for _, s := range snippets {
		set[s.ID] = true
	}
	return set
}
