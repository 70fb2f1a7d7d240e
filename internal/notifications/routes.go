package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fypportal/internal/auth"
	"fypportal/internal/respond"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", listNotificationsHandler(s))
	return router
}

// GET: /?userUid=
func listNotificationsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userUID, err := auth.ResolveUID(r, r.URL.Query().Get("userUid"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		feed, err := s.List(r.Context(), userUID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		render.JSON(w, r, feed)
	}
}
