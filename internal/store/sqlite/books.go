package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/normalize"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, created_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book
	var createdAt string

	err := scanner.Scan(&b.ID, &b.Title, &b.Author, &createdAt)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new catalog entry. The (title, author) pair is
// unique under its normalized comparison keys; a concurrent insert of
// the same pair (or an ISBN collision) returns store.ErrAlreadyExists
// so the caller can re-fetch the winning row.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, title_lower, author_lower, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		normalize.Key(book.Title),
		normalize.Key(book.Author),
		formatTime(book.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a catalog entry by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByTitleAuthor retrieves a catalog entry by its normalized
// (title, author) comparison keys.
// Returns store.ErrNotFound if no entry matches.
func (s *Store) GetBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE title_lower = ? AND author_lower = ?`,
		normalize.Key(title), normalize.Key(author))

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
