package submissions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", createSubmissionHandler(s))
	router.Get("/", listSubmissionsHandler(s))
	router.Patch("/{submissionID}", feedbackHandler(s))
	return router
}

// POST: /
func createSubmissionHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSubmissionRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		uid, err := auth.ResolveUID(r, req.StudentUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		req.StudentUID = uid

		sub, err := s.Create(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, sub)
	}
}

// GET: /?projectId=&studentUid=
func listSubmissionsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		subs, err := s.List(r.Context(), Filter{
			ProjectID:  query.Get("projectId"),
			StudentUID: query.Get("studentUid"),
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, subs)
	}
}

// PATCH: /{submissionID}
func feedbackHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Feedback string `json:"feedback"`
		}
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		sub, err := s.GiveFeedback(r.Context(), chi.URLParam(r, "submissionID"), req.Feedback)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, sub)
	}
}
