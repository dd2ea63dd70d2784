package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/api/init", h.Init)
	r.Post("/api/chat", h.Chat)
	r.Post("/api/chat/clear", h.ClearChat)
	r.Post("/api/reset", h.Reset)
}
