package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"

	"fypportal/internal/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthRoutes serves the banner and the health check.
func HealthRoutes(ping Pinger) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", bannerHandler)
	router.Get("/health", healthHandler(ping))
	return router
}

// GET: /
func bannerHandler(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "FYP Portal Server is Running")
}

// GET: /health
func healthHandler(ping Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				glog.Warningf("health check failed: %v\n", err)
				respond.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
