package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", createCompletedProjectHandler(s))
	router.Get("/", searchCompletedProjectsHandler(s))
	return router
}

// POST: /
func createCompletedProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCompletedProjectRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		p, err := s.Create(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, p)
	}
}

// GET: /?search=
func searchCompletedProjectsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := s.Search(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, projects)
	}
}
