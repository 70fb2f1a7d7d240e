package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()

	router.Post("/", createProjectHandler(s))
	router.Get("/", listProjectsHandler(s))
	router.Get("/mine", listMyProjectsHandler(s))

	router.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", getProjectHandler(s))
		r.Patch("/", editProjectHandler(s))
		r.Patch("/archive", archiveProjectHandler(s))
		r.Delete("/", deleteProjectHandler(s))
	})
	return router
}

// POST: /
func createProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		uid, err := auth.ResolveUID(r, req.SupervisorUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		req.SupervisorUID = uid

		project, err := s.Create(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, project)
	}
}

// GET: /?search=
func listProjectsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := s.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, projects)
	}
}

// GET: /mine?supervisorUid=
func listMyProjectsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := auth.ResolveUID(r, r.URL.Query().Get("supervisorUid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		projects, err := s.Mine(r.Context(), uid)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, projects)
	}
}

// GET: /{projectID}
func getProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := s.Get(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, project)
	}
}

// PATCH: /{projectID}
func editProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditProjectRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		uid, err := auth.ResolveUID(r, req.SupervisorUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		req.SupervisorUID = uid
		req.ProjectID = chi.URLParam(r, "projectID")

		project, err := s.Edit(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, project)
	}
}

// PATCH: /{projectID}/archive?supervisorUid=
func archiveProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := auth.ResolveUID(r, r.URL.Query().Get("supervisorUid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		project, err := s.Archive(r.Context(), chi.URLParam(r, "projectID"), uid)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, project)
	}
}

// DELETE: /{projectID}?supervisorUid=
func deleteProjectHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := auth.ResolveUID(r, r.URL.Query().Get("supervisorUid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if err := s.Delete(r.Context(), chi.URLParam(r, "projectID"), uid); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Message(w, r, http.StatusOK, "Project deleted")
	}
}
