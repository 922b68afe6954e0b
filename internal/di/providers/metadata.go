package providers

import (
	"github.com/samber/do/v2"

	"github.com/booknotesapp/booknotes-server/internal/config"
	"github.com/booknotesapp/booknotes-server/internal/logger"
	"github.com/booknotesapp/booknotes-server/internal/metadata/openlibrary"
)

// OpenLibraryClientHandle wraps the Open Library client with shutdown capability.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideOpenLibraryClient provides the Open Library search API client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.New(
		cfg.OpenLibrary.BaseURL,
		cfg.OpenLibrary.Timeout,
		cfg.OpenLibrary.RequestsPerMinute,
		log.Logger,
	)

	log.Info("Open Library client initialized",
		"base_url", cfg.OpenLibrary.BaseURL,
		"requests_per_minute", cfg.OpenLibrary.RequestsPerMinute,
	)

	return &OpenLibraryClientHandle{Client: client}, nil
}
