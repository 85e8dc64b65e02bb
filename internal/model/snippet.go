// Package model defines the data structures shared across the application.
package model

import "time"

// Snippet represents one saved script.
//
// The ID is generated client-side at creation time and never regenerated —
// it stays stable when the snippet later moves from local storage into the
// account database. UserID and the timestamps are only meaningful for
// account-backed snippets; local-only snippets carry zero values there and
// omit them from the serialized form.
type Snippet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// SnippetChanges describes a partial update to a snippet.
// A nil field means "leave this field as it is" — updates are a merge,
// not a replace.
type SnippetChanges struct {
	Name *string `json:"name,omitempty"`
	Code *string `json:"code,omitempty"`
}
