package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

func testUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}
}

func TestCreateUser_GetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("user-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", got.Email)
	}
	if got.Name != "Test User" {
		t.Errorf("name = %q, want Test User", got.Name)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("password hash not preserved")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := s.CreateUser(ctx, testUser("user-2", "alice@example.com"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateUser_DuplicateEmailDifferentCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := s.CreateUser(ctx, testUser("user-2", "Alice@Example.COM"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists for case-variant email", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("user-1", "Alice@Example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "alice@EXAMPLE.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id = %q, want user-1", got.ID)
	}
	// Original casing is preserved in storage.
	if got.Email != "Alice@Example.com" {
		t.Errorf("email = %q, want Alice@Example.com", got.Email)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("user-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u.LastLoginAt = time.Now().Add(time.Hour)
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.LastLoginAt.After(got.CreatedAt) {
		t.Error("last login not updated")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateUser(context.Background(), testUser("missing", "nobody@example.com"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
