package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fypportal/internal/qerrors"
	"fypportal/internal/respond"
)

// Routes accepts single-file multipart uploads in the "file" field, up to maxBytes.
func Routes(s *Service, maxBytes int64) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", uploadHandler(s, maxBytes))
	return router
}

// POST: /
func uploadHandler(s *Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			respond.Error(w, r, qerrors.NoFileUploadedError)
			return
		}
		if err != nil {
			respond.Error(w, r, qerrors.Validationf("invalid upload: %v", err))
			return
		}
		defer file.Close()

		fileURL, err := s.Save(r.Context(), header.Filename, file)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, map[string]string{"fileUrl": fileURL})
	}
}
