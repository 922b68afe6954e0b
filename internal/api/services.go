package api

import (
	"github.com/booknotesapp/booknotes-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Catalog *service.CatalogService
	Note    *service.NoteService
}
