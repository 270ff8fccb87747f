package router

import (
	"net/http"

	"sazo-orders/internal/handler"
	"sazo-orders/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router. Storefront routes (order lookup, order
// placement, catalogue reads) are public; back-office routes (listing,
// stats, status updates, deletion) sit behind the admin API key.
func New(
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.GetAll)
		r.Get("/{id}", productHandler.GetByID)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", orderHandler.Create)

		// chi matches the static /stats route ahead of the public {id}
		// wildcard, so "stats" is never read as an order identity.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(apiKey, logger))
			r.Get("/", orderHandler.List)
			r.Get("/stats", orderHandler.Stats)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
			r.Delete("/{id}", orderHandler.Delete)
		})

		r.Get("/{id}", orderHandler.Get)
	})

	return r
}
