package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/upload", h.Upload)
	r.Get("/api/documents", h.ListDocuments)
	r.Post("/api/documents/delete", h.DeleteDocument)
}
