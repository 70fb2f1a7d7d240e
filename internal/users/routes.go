package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()

	// Registration is idempotent on firebaseUid
	router.Post("/", registerUserHandler(s))

	router.Get("/{uid}", getUserHandler(s))
	router.Patch("/{uid}", updateUserHandler(s))
	return router
}

// SupervisorRoutes lists the supervisor directory.
func SupervisorRoutes(s *Service) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", listSupervisorsHandler(s))
	return router
}

// POST: /
func registerUserHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		uid, err := auth.ResolveUID(r, req.FirebaseUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		req.FirebaseUID = uid

		user, created, err := s.Register(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if !created {
			respond.Message(w, r, http.StatusOK, "User already exists")
			return
		}
		respond.JSON(w, r, http.StatusCreated, user)
	}
}

// GET: /{uid}
func getUserHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Get(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, user)
	}
}

// PATCH: /{uid}
func updateUserHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		uid, err := auth.ResolveUID(r, chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		req.FirebaseUID = uid

		user, err := s.Update(r.Context(), &req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, user)
	}
}

// GET: /supervisors
func listSupervisorsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisors, err := s.Supervisors(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, supervisors)
	}
}
