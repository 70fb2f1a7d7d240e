package applications

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()

	router.Post("/", submitApplicationHandler(s))
	router.Post("/proposal", submitProposalHandler(s))
	router.Get("/", listApplicationsHandler(s))

	router.Route("/{applicationID}", func(r chi.Router) {
		// Supervisor decision
		r.Patch("/", decideApplicationHandler(s))
		// Student edit of their own proposal
		r.Patch("/proposal", editProposalHandler(s))
	})
	return router
}

// POST: /
func submitApplicationHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
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

		application, err := s.Submit(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, application)
	}
}

// POST: /proposal
func submitProposalHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProposalRequest
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

		application, err := s.SubmitProposal(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, application)
	}
}

// GET: /?studentUid=|supervisorUid=
func listApplicationsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if supervisorUID := query.Get("supervisorUid"); supervisorUID != "" {
			uid, err := auth.ResolveUID(r, supervisorUID)
			if err != nil {
				respond.Error(w, r, err)
				return
			}
			apps, err := s.ListForSupervisor(r.Context(), uid)
			if err != nil {
				respond.Error(w, r, err)
				return
			}
			render.JSON(w, r, apps)
			return
		}

		studentUID := query.Get("studentUid")
		if studentUID != "" {
			uid, err := auth.ResolveUID(r, studentUID)
			if err != nil {
				respond.Error(w, r, err)
				return
			}
			studentUID = uid
		}
		apps, err := s.ListForStudent(r.Context(), studentUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, apps)
	}
}

// PATCH: /{applicationID}
func decideApplicationHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DecisionRequest
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
		req.ApplicationID = chi.URLParam(r, "applicationID")

		application, err := s.Decide(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, application)
	}
}

// PATCH: /{applicationID}/proposal
func editProposalHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditProposalRequest
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
		req.ApplicationID = chi.URLParam(r, "applicationID")

		application, err := s.EditProposal(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, application)
	}
}
