package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	firebaseAuth "firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"fypportal/internal/config"
)

// App holds the process-scoped Firebase clients. It is created once in main and closed on
// shutdown.
type App struct {
	app       *firebaseSDK.App
	Firestore *firestore.Client
	Auth      *firebaseAuth.Client
}

// NewApp initializes the Firebase App and its Firestore client. The Auth client is only created
// when identity verification is enabled, since the Firestore emulator has no auth backend.
func NewApp(ctx context.Context, cfg *config.ServerConfig) (*App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebaseSDK.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebaseSDK.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebaseSDK.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %w", err)
	}

	a := &App{app: app, Firestore: firestoreClient}
	if cfg.VerifyIdentity {
		authClient, err := app.Auth(ctx)
		if err != nil {
			_ = firestoreClient.Close()
			return nil, fmt.Errorf("Auth client error: %w", err)
		}
		a.Auth = authClient
	}

	return a, nil
}

// Close releases the Firestore connection.
func (a *App) Close() error {
	return a.Firestore.Close()
}
