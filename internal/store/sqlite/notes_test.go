package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// seedUserAndBook creates the rows a note depends on.
func seedUserAndBook(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := s.CreateBook(ctx, testBook("isbn-1", "Dune", "Frank Herbert")); err != nil {
		t.Fatalf("seed book: %v", err)
	}
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func testNote(userID, bookID string) *domain.Note {
	now := time.Now()
	return &domain.Note{
		UserID:      userID,
		BookID:      bookID,
		CompletedOn: strp("2025-11-03"),
		Rating:      intp(9),
		Description: strp("A classic."),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateNote_GetNote(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	if err := s.CreateNote(ctx, testNote("user-1", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := s.GetNote(ctx, "user-1", "isbn-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Title != "Dune" || got.Author != "Frank Herbert" {
		t.Errorf("join fields = %q / %q", got.Title, got.Author)
	}
	if got.CompletedOn == nil || *got.CompletedOn != "2025-11-03" {
		t.Errorf("completed_on = %v", got.CompletedOn)
	}
	if got.Rating == nil || *got.Rating != 9 {
		t.Errorf("rating = %v", got.Rating)
	}
}

func TestCreateNote_NullFields(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	now := time.Now()
	note := &domain.Note{
		UserID:    "user-1",
		BookID:    "isbn-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := s.GetNote(ctx, "user-1", "isbn-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.CompletedOn != nil || got.Rating != nil || got.Description != nil {
		t.Errorf("blank fields should be nil, got %v %v %v", got.CompletedOn, got.Rating, got.Description)
	}
}

func TestCreateNote_Duplicate(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	if err := s.CreateNote(ctx, testNote("user-1", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}

	err := s.CreateNote(ctx, testNote("user-1", "isbn-1"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetNote(context.Background(), "user-1", "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNotes(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	if err := s.CreateBook(ctx, testBook("isbn-2", "Hyperion", "Dan Simmons")); err != nil {
		t.Fatalf("seed second book: %v", err)
	}
	if err := s.CreateUser(ctx, testUser("user-2", "bob@example.com")); err != nil {
		t.Fatalf("seed second user: %v", err)
	}

	if err := s.CreateNote(ctx, testNote("user-1", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := s.CreateNote(ctx, testNote("user-1", "isbn-2")); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := s.CreateNote(ctx, testNote("user-2", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}

	notes, err := s.ListNotes(ctx, "user-1")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2 (rows scoped to user)", len(notes))
	}
	for _, n := range notes {
		if n.UserID != "user-1" {
			t.Errorf("leaked note for user %q", n.UserID)
		}
		if n.Title == "" {
			t.Error("missing joined title")
		}
	}
}

func TestListNotes_Empty(t *testing.T) {
	s := newTestStore(t)

	notes, err := s.ListNotes(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("len = %d, want 0", len(notes))
	}
}

func TestUpdateNote(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	if err := s.CreateNote(ctx, testNote("user-1", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}

	// Full replace: blank fields overwrite to NULL.
	update := &domain.Note{
		UserID:    "user-1",
		BookID:    "isbn-1",
		Rating:    intp(7),
		UpdatedAt: time.Now(),
	}
	if err := s.UpdateNote(ctx, update); err != nil {
		t.Fatalf("update note: %v", err)
	}

	got, err := s.GetNote(ctx, "user-1", "isbn-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Rating == nil || *got.Rating != 7 {
		t.Errorf("rating = %v, want 7", got.Rating)
	}
	if got.CompletedOn != nil {
		t.Errorf("completed_on = %v, want nil after full replace", got.CompletedOn)
	}
	if got.Description != nil {
		t.Errorf("description = %v, want nil after full replace", got.Description)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)

	err := s.UpdateNote(context.Background(), testNote("user-1", "isbn-1"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNote(t *testing.T) {
	s := newTestStore(t)
	seedUserAndBook(t, s)
	ctx := context.Background()

	if err := s.CreateNote(ctx, testNote("user-1", "isbn-1")); err != nil {
		t.Fatalf("create note: %v", err)
	}

	if err := s.DeleteNote(ctx, "user-1", "isbn-1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}

	_, err := s.GetNote(ctx, "user-1", "isbn-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestDeleteNote_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// Deleting a note that never existed is success.
	if err := s.DeleteNote(context.Background(), "user-1", "missing"); err != nil {
		t.Errorf("delete of missing note: %v, want nil", err)
	}
}
