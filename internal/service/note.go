package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/store"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

// maxBookIDLength bounds catalog ids arriving from path parameters.
// ISBNs are at most 13 characters; anything past 20 is garbage input.
const maxBookIDLength = 20

// NoteService handles a user's book notes. Each note is keyed by the
// (user, book) pair; creating one resolves the book through the catalog
// first.
type NoteService struct {
	store   *sqlite.Store
	catalog *CatalogService
	logger  *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store *sqlite.Store, catalog *CatalogService, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// CreateNoteRequest contains a new note plus the (title, author) pair
// identifying the book it is about.
type CreateNoteRequest struct {
	Title       string  `json:"title" validate:"required,max=500"`
	Author      string  `json:"author" validate:"required,max=500"`
	CompletedOn *string `json:"completed_on,omitempty"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10"`
	Description *string `json:"description,omitempty"`
}

// UpdateNoteRequest replaces all three mutable fields of a note.
// An omitted or blank field clears the stored value.
type UpdateNoteRequest struct {
	CompletedOn *string `json:"completed_on,omitempty"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10"`
	Description *string `json:"description,omitempty"`
}

// CreateNote resolves the book and records a new note for it.
// A second note for the same book fails with ALREADY_EXISTS.
func (s *NoteService) CreateNote(ctx context.Context, userID string, req CreateNoteRequest) (*domain.NoteWithBook, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.catalog.Resolve(ctx, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &domain.Note{
		UserID:      userID,
		BookID:      book.ID,
		CompletedOn: blankToNil(req.CompletedOn),
		Rating:      req.Rating,
		Description: blankToNil(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("you already have a note for this book")
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("note created",
			"user_id", userID,
			"book_id", book.ID,
		)
	}

	return &domain.NoteWithBook{
		Note:   *note,
		Title:  book.Title,
		Author: book.Author,
	}, nil
}

// GetNote returns one note by its composite key.
func (s *NoteService) GetNote(ctx context.Context, userID, bookID string) (*domain.NoteWithBook, error) {
	if err := validateBookID(bookID); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListNotes returns all of a user's notes with their book details.
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]*domain.NoteWithBook, error) {
	notes, err := s.store.ListNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote replaces the completion date, rating, and description of
// an existing note. Updating a note that does not exist fails with
// NOT_FOUND.
func (s *NoteService) UpdateNote(ctx context.Context, userID, bookID string, req UpdateNoteRequest) (*domain.NoteWithBook, error) {
	if err := validateBookID(bookID); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID:      userID,
		BookID:      bookID,
		CompletedOn: blankToNil(req.CompletedOn),
		Rating:      req.Rating,
		Description: blankToNil(req.Description),
		UpdatedAt:   time.Now(),
	}

	if err := s.store.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return s.GetNote(ctx, userID, bookID)
}

// DeleteNote removes a note. Deleting a note that does not exist is
// not an error.
func (s *NoteService) DeleteNote(ctx context.Context, userID, bookID string) error {
	if err := validateBookID(bookID); err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, userID, bookID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// validateBookID bounds ids supplied from outside before they reach
// storage. This is a length cap, not a format check.
func validateBookID(bookID string) error {
	if bookID == "" {
		return domainerrors.Validation("book id is required")
	}
	if len(bookID) > maxBookIDLength {
		return domainerrors.Validationf("book id exceeds %d characters", maxBookIDLength)
	}
	return nil
}

// blankToNil treats a blank string as an absent value so both the
// create and update paths store NULL for fields the user left empty.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
