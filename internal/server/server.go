package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"fypportal/internal/applications"
	"fypportal/internal/auth"
	"fypportal/internal/catalog"
	"fypportal/internal/config"
	"fypportal/internal/firebase"
	"fypportal/internal/logbooks"
	fypmiddleware "fypportal/internal/middleware"
	"fypportal/internal/notifications"
	"fypportal/internal/projects"
	"fypportal/internal/repository"
	rtr "fypportal/internal/router"
	"fypportal/internal/submissions"
	"fypportal/internal/upload"
	"fypportal/internal/users"
)

// Services is every domain service the HTTP surface exposes.
type Services struct {
	Users         *users.Service
	Projects      *projects.Service
	Applications  *applications.Service
	Submissions   *submissions.Service
	Logbooks      *logbooks.Service
	Notifications *notifications.Service
	Catalog       *catalog.Service
	Upload        *upload.Service
}

// NewServices wires the domain services to their Firestore repositories and the upload store.
func NewServices(cfg *config.ServerConfig, client *firestore.Client) (*Services, error) {
	store, err := upload.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	notificationService := notifications.NewService(notifications.NewFirebaseRepository(client))
	userService := users.NewService(users.NewFirebaseRepository(client))
	projectService := projects.NewService(projects.NewFirebaseRepository(client))

	return &Services{
		Users:         userService,
		Projects:      projectService,
		Applications:  applications.NewService(applications.NewFirebaseRepository(client), projectService, userService, notificationService),
		Submissions:   submissions.NewService(submissions.NewFirebaseRepository(client), notificationService),
		Logbooks:      logbooks.NewService(logbooks.NewFirebaseRepository(client), notificationService),
		Notifications: notificationService,
		Catalog:       catalog.NewService(catalog.NewFirebaseRepository(client)),
		Upload:        upload.NewService(store, cfg.UploadURLPrefix),
	}, nil
}

// Routes builds the full router. A nil verifier leaves identity unchecked.
func Routes(cfg *config.ServerConfig, s *Services, verifier auth.TokenVerifier, ping rtr.Pinger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Logger, // Log API Request Calls
		middleware.Recoverer,
		fypmiddleware.Metrics(),
	)

	router.Mount("/", rtr.HealthRoutes(ping))
	router.Handle("/metrics", promhttp.Handler())
	router.Handle(cfg.UploadURLPrefix+"/*", upload.Files(cfg.UploadDir, cfg.UploadURLPrefix))

	router.Group(func(r chi.Router) {
		r.Use(auth.Identity(verifier))

		r.Mount("/users", users.Routes(s.Users))
		r.Mount("/supervisors", users.SupervisorRoutes(s.Users))
		r.Mount("/projects", projects.Routes(s.Projects))
		r.Mount("/applications", applications.Routes(s.Applications))
		r.Mount("/submissions", submissions.Routes(s.Submissions))
		r.Mount("/logbooks", logbooks.Routes(s.Logbooks))
		r.Mount("/notifications", notifications.Routes(s.Notifications))
		r.Mount("/completed-projects", catalog.Routes(s.Catalog))
		r.Mount("/upload", upload.Routes(s.Upload, cfg.MaxUploadBytes))
	})

	return router
}

// Handler wraps the router with CORS for the configured origins.
func Handler(cfg *config.ServerConfig, router http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

// Start serves the API until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, cfg *config.ServerConfig, app *firebase.App) error {
	services, err := NewServices(cfg, app.Firestore)
	if err != nil {
		return err
	}

	var verifier auth.TokenVerifier
	if app.Auth != nil {
		verifier = app.Auth
	}
	ping := func(ctx context.Context) error {
		return repository.Ping(ctx, app.Firestore, users.FirestoreUsersCollection)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%v", cfg.Port),
		Handler:           Handler(cfg, Routes(cfg, services, verifier, ping)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server is listening on port %v\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Println("Shutting down server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
