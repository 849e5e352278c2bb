package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes mounts the API, the health check and the Prometheus endpoint.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/diffs", func(r chi.Router) {
		r.Post("/", h.HandleCreateDiff)
		r.Get("/", h.HandleListDiffs)
		r.Get("/{id}", h.HandleGetDiff)
		r.Delete("/{id}", h.HandleDeleteDiff)
	})

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
