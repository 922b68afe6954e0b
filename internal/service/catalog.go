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
	"github.com/booknotesapp/booknotes-server/internal/metadata/openlibrary"
	"github.com/booknotesapp/booknotes-server/internal/normalize"
	"github.com/booknotesapp/booknotes-server/internal/store"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

// CatalogService resolves a user-submitted (title, author) pair to a
// shared catalog entry, creating one from Open Library data on first
// reference.
type CatalogService struct {
	store   *sqlite.Store
	catalog *openlibrary.Client
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog resolution service.
func NewCatalogService(store *sqlite.Store, catalog *openlibrary.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// Resolve finds or creates the catalog entry for a (title, author) pair.
//
// The local catalog is checked first on normalized comparison keys; a
// hit returns immediately without touching the network. On a miss, Open
// Library is queried with the original-case values sorted oldest-first,
// and the first candidate whose title and author both match exactly
// (after normalization) and which carries at least one ISBN wins. The
// candidate's first ISBN becomes the entry's id.
//
// No match, or a search with zero results, returns a NOT_FOUND the user
// can recover from by correcting the title or author. A failed search
// call returns UPSTREAM instead so the two cases stay distinguishable.
func (s *CatalogService) Resolve(ctx context.Context, title, author string) (*domain.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return nil, domainerrors.Validation("title and author are required")
	}

	book, err := s.store.GetBookByTitleAuthor(ctx, title, author)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	result, err := s.catalog.Search(ctx, title, author)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("open library search failed",
				"title", title,
				"author", author,
				"error", err,
			)
		}
		return nil, domainerrors.Upstream("book search is currently unavailable").WithCause(err)
	}

	doc := matchCandidate(result.Docs, title, author)
	if doc == nil {
		return nil, domainerrors.NotFoundf("no book found matching title %q and author %q", title, author)
	}

	book = &domain.Book{
		ID:        doc.ISBN[0],
		Title:     doc.Title,
		Author:    strings.Join(doc.AuthorName, ", "),
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent resolution inserted the same entry first.
			return s.refetch(ctx, book, title, author)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("catalog entry created",
			"book_id", book.ID,
			"title", book.Title,
		)
	}

	return book, nil
}

// matchCandidate scans search results in order and returns the first
// one whose title and author match the query exactly after
// normalization and which has at least one ISBN. First match wins.
func matchCandidate(docs []openlibrary.Doc, title, author string) *openlibrary.Doc {
	titleKey := normalize.Key(title)
	authorKey := normalize.Key(author)

	for i := range docs {
		doc := &docs[i]
		if normalize.Key(doc.Title) != titleKey {
			continue
		}
		if len(doc.ISBN) == 0 {
			continue
		}
		for _, name := range doc.AuthorName {
			if normalize.Key(name) == authorKey {
				return doc
			}
		}
	}
	return nil
}

// refetch resolves a lost insert race by reading back the entry the
// winner created, first by comparison keys and then by id.
func (s *CatalogService) refetch(ctx context.Context, book *domain.Book, title, author string) (*domain.Book, error) {
	existing, err := s.store.GetBookByTitleAuthor(ctx, title, author)
	if err == nil {
		return existing, nil
	}

	existing, err = s.store.GetBook(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("refetch book after conflict: %w", err)
	}
	return existing, nil
}
