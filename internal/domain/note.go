package domain

import "time"

// Note is a user's record for one book: when they finished it, how
// they rate it, and their free-text thoughts. Identified by the
// (UserID, BookID) pair; a user holds at most one note per book.
//
// The three content fields are uniformly optional. A nil pointer means
// the user left the field blank and it is stored as NULL.
type Note struct {
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	CompletedOn *string   `json:"completed_on,omitempty"` // ISO date, e.g. "2025-11-03"
	Rating      *int      `json:"rating,omitempty"`       // 1-10
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NoteWithBook is a note joined with its catalog entry, the shape the
// listing and detail endpoints return.
type NoteWithBook struct {
	Note
	Title  string `json:"title"`
	Author string `json:"author"`
}
