package api

import (
	"net/http"

	"github.com/futig/genie-client/internal/api/chat"
	"github.com/futig/genie-client/internal/api/docs"
	"github.com/futig/genie-client/internal/api/document"
	"github.com/futig/genie-client/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router.
// No request timeout is applied: chat answers may legitimately take minutes.
func SetupRouter(chatHandler *chat.Handler, documentHandler *document.Handler, swaggerFile string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, swaggerFile)

	chat.RegisterRoutes(r, chatHandler)
	document.RegisterRoutes(r, documentHandler)

	return r
}
