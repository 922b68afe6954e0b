package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/v1/notes",
		Summary:       "Create note",
		Description:   "Resolves the (title, author) pair against the catalog and records a note for the matched book",
		Tags:          []string{"Notes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns all of the authenticated user's notes with book details",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{bookID}",
		Summary:     "Get note",
		Description: "Returns the authenticated user's note for one book",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPut,
		Path:        "/api/v1/notes/{bookID}",
		Summary:     "Update note",
		Description: "Replaces the completion date, rating, and description of a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{bookID}",
		Summary:     "Delete note",
		Description: "Removes a note. Deleting a note that does not exist succeeds.",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)
}

// === DTOs ===

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title       string  `json:"title" validate:"required,max=500" doc:"Book title as the user wrote it"`
	Author      string  `json:"author" validate:"required,max=500" doc:"Book author as the user wrote it"`
	CompletedOn *string `json:"completed_on,omitempty" doc:"Completion date (ISO date)"`
	Rating      *int    `json:"rating,omitempty" doc:"Rating from 1 to 10"`
	Description *string `json:"description,omitempty" doc:"Free-text notes"`
}

// CreateNoteInput wraps the create request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// UpdateNoteRequest is the request body for updating a note. All three
// fields are replaced; omitted fields are cleared.
type UpdateNoteRequest struct {
	CompletedOn *string `json:"completed_on,omitempty" doc:"Completion date (ISO date)"`
	Rating      *int    `json:"rating,omitempty" doc:"Rating from 1 to 10"`
	Description *string `json:"description,omitempty" doc:"Free-text notes"`
}

// UpdateNoteInput wraps the update request with its path parameter.
type UpdateNoteInput struct {
	BookID string `path:"bookID" doc:"Catalog id of the book"`
	Body   UpdateNoteRequest
}

// NoteIDInput identifies a note by its book's catalog id.
type NoteIDInput struct {
	BookID string `path:"bookID" doc:"Catalog id of the book"`
}

// NoteResponse contains one note with its book details.
type NoteResponse struct {
	BookID      string    `json:"book_id" doc:"Catalog id of the book"`
	Title       string    `json:"title" doc:"Book title"`
	Author      string    `json:"author" doc:"Book author"`
	CompletedOn *string   `json:"completed_on,omitempty" doc:"Completion date"`
	Rating      *int      `json:"rating,omitempty" doc:"Rating from 1 to 10"`
	Description *string   `json:"description,omitempty" doc:"Free-text notes"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// NotesListResponse contains a user's notes.
type NotesListResponse struct {
	Notes []NoteResponse `json:"notes" doc:"The user's notes"`
	Total int            `json:"total" doc:"Number of notes"`
}

// NotesListOutput wraps the list response for Huma.
type NotesListOutput struct {
	Body NotesListResponse
}

// === Handlers ===

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateNote(ctx, userID, service.CreateNoteRequest{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		CompletedOn: input.Body.CompletedOn,
		Rating:      input.Body.Rating,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleListNotes(ctx context.Context, _ *struct{}) (*NotesListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := NotesListResponse{
		Notes: make([]NoteResponse, 0, len(notes)),
		Total: len(notes),
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, mapNoteResponse(note))
	}

	return &NotesListOutput{Body: resp}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.GetNote(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.UpdateNote(ctx, userID, input.BookID, service.UpdateNoteRequest{
		CompletedOn: input.Body.CompletedOn,
		Rating:      input.Body.Rating,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.DeleteNote(ctx, userID, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

// === Helpers ===

func mapNoteResponse(note *domain.NoteWithBook) NoteResponse {
	return NoteResponse{
		BookID:      note.BookID,
		Title:       note.Title,
		Author:      note.Author,
		CompletedOn: note.CompletedOn,
		Rating:      note.Rating,
		Description: note.Description,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}
