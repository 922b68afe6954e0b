package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries,
// joined with the catalog title and author.
// Must match the scan order in scanNote.
const noteColumns = `n.user_id, n.book_id, n.completed_on, n.rating, n.description,
	n.created_at, n.updated_at, b.title, b.author`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.NoteWithBook.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.NoteWithBook, error) {
	var n domain.NoteWithBook

	var (
		completedOn sql.NullString
		rating      sql.NullInt64
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&n.UserID,
		&n.BookID,
		&completedOn,
		&rating,
		&description,
		&createdAt,
		&updatedAt,
		&n.Title,
		&n.Author,
	)
	if err != nil {
		return nil, err
	}

	n.CompletedOn = stringPtr(completedOn)
	n.Rating = intPtr(rating)
	n.Description = stringPtr(description)

	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// CreateNote inserts a new note. Blank content fields are stored as NULL.
// Returns store.ErrAlreadyExists if the user already has a note for
// this book (the (user_id, book_id) primary key is the uniqueness rule).
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (
			user_id, book_id, completed_on, rating, description,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.UserID,
		note.BookID,
		nullableString(note.CompletedOn),
		nullableInt(note.Rating),
		nullableString(note.Description),
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetNote retrieves one note by its (user, book) composite key, joined
// with the catalog entry. Returns store.ErrNotFound if it does not exist.
func (s *Store) GetNote(ctx context.Context, userID, bookID string) (*domain.NoteWithBook, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n
		JOIN books b ON b.id = n.book_id
		WHERE n.user_id = ? AND n.book_id = ?`,
		userID, bookID)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns all of a user's notes joined with their catalog
// entries, newest first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]*domain.NoteWithBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n
		JOIN books b ON b.id = n.book_id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.NoteWithBook
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote replaces the three content fields of an existing note.
// Blank fields overwrite to NULL; there is no partial update.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET
			completed_on = ?,
			rating = ?,
			description = ?,
			updated_at = ?
		WHERE user_id = ? AND book_id = ?`,
		nullableString(note.CompletedOn),
		nullableInt(note.Rating),
		nullableString(note.Description),
		formatTime(note.UpdatedAt),
		note.UserID,
		note.BookID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteNote removes a note. Deleting a note that does not exist is
// not an error; the end state is the same.
func (s *Store) DeleteNote(ctx context.Context, userID, bookID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE user_id = ? AND book_id = ?`,
		userID, bookID)
	return err
}
