// Package model defines the data structures shared across the application.
package model

import "time"

// User represents a registered account.
//
// Two sign-in paths feed this record: email/password (PasswordHash set,
// GitHubID zero) and GitHub OAuth (GitHubID set, PasswordHash empty). In
// both cases we generate our own internal string ID (xid) so primary keys
// are never tied to a third party's numbering scheme.
//
// PasswordHash is the full bcrypt output (salt and cost embedded). It is
// tagged `json:"-"` so it can never leak into an API response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	GitHubID     int64     `json:"githubId,omitempty" db:"github_id"`
	Login        string    `json:"login"     db:"login"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
