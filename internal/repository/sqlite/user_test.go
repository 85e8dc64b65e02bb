package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/tahmid/snippet-explorer/internal/apperror"
	"github.com/tahmid/snippet-explorer/internal/model"
)

func TestCreateWithPassword(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Login: "alice", Email: "alice@example.com", PasswordHash: "$2a$04$hash"}
	if err := db.CreateWithPassword(context.Background(), user); err != nil {
		t.Fatalf("CreateWithPassword() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateWithPassword() did not set an internal ID")
	}

	found, err := db.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != user.ID || found.PasswordHash != "$2a$04$hash" {
		t.Errorf("GetUserByEmail() = %+v, want id=%s with stored hash", found, user.ID)
	}
}

func TestCreateWithPassword_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	first := &model.User{Login: "alice", Email: "alice@example.com", PasswordHash: "$2a$04$hash"}
	if err := db.CreateWithPassword(context.Background(), first); err != nil {
		t.Fatalf("first CreateWithPassword() error = %v", err)
	}

	second := &model.User{Login: "imposter", Email: "alice@example.com", PasswordHash: "$2a$04$other"}
	err := db.CreateWithPassword(context.Background(), second)
	if err == nil {
		t.Fatal("CreateWithPassword() with duplicate email should error")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUpsert_InsertsThenUpdates(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{GitHubID: 1234567, Login: "octo", Email: "octo@example.com"}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	firstID := user.ID
	if firstID == "" {
		t.Fatal("Upsert() did not set an internal ID")
	}

	// Second login: the internal ID must stay stable while the profile
	// fields refresh.
	again := &model.User{GitHubID: 1234567, Login: "octo-renamed", Email: "new@example.com"}
	if err := db.Upsert(context.Background(), again); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if again.ID != firstID {
		t.Errorf("Upsert() changed internal ID: %s -> %s", firstID, again.ID)
	}

	found, err := db.GetUserByID(context.Background(), firstID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Login != "octo-renamed" {
		t.Errorf("Login = %q, want refreshed %q", found.Login, "octo-renamed")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "ghost")
	if err == nil {
		t.Fatal("GetUserByID() on missing user should error")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@example.com")
	if err == nil {
		t.Fatal("GetUserByEmail() on missing user should error")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
