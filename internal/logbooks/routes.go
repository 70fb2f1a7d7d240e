package logbooks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()

	router.Post("/", createLogbookHandler(s))
	router.Get("/", listLogbooksHandler(s))
	router.Get("/summary", summaryHandler(s))

	router.Route("/{logbookID}", func(r chi.Router) {
		// Draft only
		r.Patch("/", editLogbookHandler(s))
		r.Delete("/", deleteLogbookHandler(s))

		r.Patch("/review", reviewLogbookHandler(s))
	})
	return router
}

// POST: /
func createLogbookHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateLogbookRequest
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

		lb, err := s.Create(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, lb)
	}
}

// GET: /?studentUid=&projectId=&week=
func listLogbooksHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		week, err := ParseWeek(query.Get("week"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		logbooks, err := s.List(r.Context(), Filter{
			StudentUID: query.Get("studentUid"),
			ProjectID:  query.Get("projectId"),
			Week:       week,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, logbooks)
	}
}

// GET: /summary?studentUid=&projectId=
func summaryHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		summary, err := s.Summary(r.Context(), query.Get("studentUid"), query.Get("projectId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, summary)
	}
}

// PATCH: /{logbookID}
func editLogbookHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditLogbookRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		req.LogbookID = chi.URLParam(r, "logbookID")

		lb, err := s.Edit(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, lb)
	}
}

// PATCH: /{logbookID}/review
func reviewLogbookHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Feedback *string `json:"feedback"`
		}
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		lb, err := s.Review(r.Context(), chi.URLParam(r, "logbookID"), req.Feedback)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, lb)
	}
}

// DELETE: /{logbookID}
func deleteLogbookHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Delete(r.Context(), chi.URLParam(r, "logbookID")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Message(w, r, http.StatusOK, "Logbook deleted")
	}
}
