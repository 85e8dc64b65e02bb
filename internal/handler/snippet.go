package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tahmid/snippet-explorer/internal/apperror"
	"github.com/tahmid/snippet-explorer/internal/auth"
	"github.com/tahmid/snippet-explorer/internal/model"
	"github.com/tahmid/snippet-explorer/internal/store"
)

// SnippetHandler is the HTTP surface over the snippet store.
//
// Every route runs behind OptionalAuth: anonymous requests work against
// the local file only, authenticated ones see their account snippets
// merged in. Before each operation the handler compares the request's
// identity with the store's current session and reloads on change, so
// login and logout take effect on the next request without an explicit
// refresh call.
type SnippetHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(st *store.Store, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{store: st, logger: logger}
}

// listResponse pairs the merged list with the ids that exist only in the
// local file, so the client can badge unsaved snippets and decide whether
// to offer migration.
type listResponse struct {
	Snippets     []model.Snippet `json:"snippets"`
	LocalOnlyIDs []string        `json:"localOnlyIds"`
}

// statusResponse reports the session and migration state.
type statusResponse struct {
	SignedIn     bool     `json:"signedIn"`
	UserID       string   `json:"userId,omitempty"`
	Count        int      `json:"count"`
	LocalOnlyIDs []string `json:"localOnlyIds"`
	CanMigrate   bool     `json:"canMigrate"`
}

// ensureSession reloads the store when the request's identity differs
// from the session the store last loaded for.
//
// A remote failure during the reload leaves the store serving the local
// fallback; the request proceeds against that degraded view rather than
// failing outright, and the error is logged.
func (h *SnippetHandler) ensureSession(r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if userID == h.store.CurrentUser() {
		return
	}

	if err := h.store.Load(r.Context(), userID); err != nil {
		if errors.Is(err, apperror.ErrRemote) {
			h.logger.Warn("account snippets unavailable, serving local fallback",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
			return
		}
		h.logger.Error("reloading snippets failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleList returns the merged snippet list.
//
// HTTP: GET /api/snippets
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	writeJSON(w, http.StatusOK, listResponse{
		Snippets:     h.store.Snippets(),
		LocalOnlyIDs: h.store.LocalOnlyIDs(),
	})
}

// HandleStatus reports session and migration state.
//
// HTTP: GET /api/snippets/status
func (h *SnippetHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	userID := h.store.CurrentUser()
	localOnly := h.store.LocalOnlyIDs()
	writeJSON(w, http.StatusOK, statusResponse{
		SignedIn:     userID != "",
		UserID:       userID,
		Count:        len(h.store.Snippets()),
		LocalOnlyIDs: localOnly,
		CanMigrate:   userID != "" && len(localOnly) > 0,
	})
}

// HandleCreate creates a fresh snippet with a generated id and default
// name. New snippets always start local-only, whatever the session state.
//
// HTTP: POST /api/snippets
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	snippet, err := h.store.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// updateRequest carries a partial update; absent fields are preserved.
type updateRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

// HandleUpdate applies a partial update to one snippet.
//
// HTTP: PUT /api/snippets/{id}
// Body: {"name": "...", "code": "..."} — either field may be omitted
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Snippet ID is required", http.StatusBadRequest)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	snippet, err := h.store.Update(r.Context(), id, model.SnippetChanges{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// renameRequest carries the new name for the rename route.
type renameRequest struct {
	Name string `json:"name"`
}

// HandleRename renames a snippet. Clearing the name deletes the snippet
// instead, which is how inline title editing removes entries.
//
// HTTP: PUT /api/snippets/{id}/name
// Responds 200 with the snippet on rename, 204 on delete-via-empty-name.
func (h *SnippetHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Snippet ID is required", http.StatusBadRequest)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	snippet, deleted, err := h.store.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// saveResponse reports whether an explicit save reached the account.
type saveResponse struct {
	Saved   bool           `json:"saved"`
	Snippet *model.Snippet `json:"snippet,omitempty"`
}

// HandleSave explicitly saves a local-only snippet to the account.
// Without a session this is not an error: the response says saved=false
// and the snippet stays local, matching the save button being a no-op
// for anonymous users.
//
// HTTP: POST /api/snippets/{id}/save
func (h *SnippetHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Snippet ID is required", http.StatusBadRequest)
		return
	}

	saved, err := h.store.SaveNew(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := saveResponse{Saved: saved}
	if saved {
		if snippet, err := h.store.Get(id); err == nil {
			resp.Snippet = snippet
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete removes a snippet everywhere it exists.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Snippet ID is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// migrateResponse reports how many snippets moved to the account.
type migrateResponse struct {
	Migrated int `json:"migrated"`
}

// HandleMigrate moves every local-only snippet into the signed-in user's
// account in one batch. With no session or nothing to migrate it reports
// zero rather than failing.
//
// HTTP: POST /api/snippets/migrate
func (h *SnippetHandler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	h.ensureSession(r)

	n, err := h.store.Migrate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, migrateResponse{Migrated: n})
}
