package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

func testBook(id, title, author string) *domain.Book {
	return &domain.Book{
		ID:        id,
		Title:     title,
		Author:    author,
		CreatedAt: time.Now(),
	}
}

func TestCreateBook_GetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := testBook("9780140449136", "Crime and Punishment", "Fyodor Dostoevsky")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, "9780140449136")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != "Crime and Punishment" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Author != "Fyodor Dostoevsky" {
		t.Errorf("author = %q", got.Author)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateBook_DuplicateTitleAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBook(ctx, testBook("isbn-1", "Dune", "Frank Herbert")); err != nil {
		t.Fatalf("create book: %v", err)
	}

	// Same pair under different casing must conflict.
	err := s.CreateBook(ctx, testBook("isbn-2", "DUNE", "frank herbert"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetBookByTitleAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBook(ctx, testBook("isbn-1", "Dune", "Frank Herbert")); err != nil {
		t.Fatalf("create book: %v", err)
	}

	tests := []struct {
		name   string
		title  string
		author string
	}{
		{"exact", "Dune", "Frank Herbert"},
		{"case variant", "dune", "FRANK HERBERT"},
		{"whitespace", "  Dune  ", " Frank Herbert "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetBookByTitleAuthor(ctx, tt.title, tt.author)
			if err != nil {
				t.Fatalf("get book by title/author: %v", err)
			}
			if got.ID != "isbn-1" {
				t.Errorf("id = %q, want isbn-1", got.ID)
			}
		})
	}
}

func TestGetBookByTitleAuthor_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBookByTitleAuthor(context.Background(), "Dune", "Frank Herbert")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
