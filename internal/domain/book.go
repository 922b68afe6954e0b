package domain

import "time"

// Book is a shared catalog entry. The ID is the first ISBN reported by
// Open Library for the matched edition. Catalog entries are created on
// first resolution and never updated or deleted; every user's note for
// the same (title, author) points at the same entry.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"` // Multiple authors joined into one display string
	CreatedAt time.Time `json:"created_at"`
}
