package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// CredentialsFile is the path to the Firebase service account JSON. If empty, application
	// default credentials are used (or the Firestore emulator, when FIRESTORE_EMULATOR_HOST is set).
	CredentialsFile string
	// ProjectID is the Google Cloud project that owns the Firestore database.
	ProjectID string
	// UploadDir is the directory uploaded files are written to.
	UploadDir string
	// UploadURLPrefix is the path prefix uploaded files are served under.
	UploadURLPrefix string
	// MaxUploadBytes caps the size of a single multipart upload.
	MaxUploadBytes int64
	// VerifyIdentity requires a Firebase ID token on every API request. When false, caller
	// supplied uids are trusted.
	VerifyIdentity bool
	// Port is the port the server should run on.
	Port int
	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
	ShutdownTimeout time.Duration
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:    []string{"*"},
		CredentialsFile:   "firebase-config.json",
		UploadDir:         "uploads",
		UploadURLPrefix:   "/uploads",
		MaxUploadBytes:    10 << 20,
		VerifyIdentity:    false,
		Port:              8000,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds a ServerConfig from the environment, reading an optional .env file first.
func Load() *ServerConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("🙂️ No .env file found. Using the process environment.")
	}

	def := DefaultConfig()
	cfg := &ServerConfig{
		AllowedOrigins:    getenvList("ALLOWED_ORIGINS", def.AllowedOrigins),
		CredentialsFile:   getenv("FIREBASE_CREDENTIALS_FILE", def.CredentialsFile),
		ProjectID:         getenv("FIREBASE_PROJECT_ID", def.ProjectID),
		UploadDir:         getenv("UPLOAD_DIR", def.UploadDir),
		UploadURLPrefix:   strings.TrimRight(getenv("UPLOAD_URL_PREFIX", def.UploadURLPrefix), "/"),
		MaxUploadBytes:    int64(getenvInt("MAX_UPLOAD_BYTES", int(def.MaxUploadBytes))),
		VerifyIdentity:    getenvBool("VERIFY_IDENTITY", def.VerifyIdentity),
		Port:              getenvInt("PORT", def.Port),
		ReadHeaderTimeout: getenvDuration("READ_HEADER_TIMEOUT", def.ReadHeaderTimeout),
		ShutdownTimeout:   getenvDuration("SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
	}
	if cfg.UploadURLPrefix == "" {
		cfg.UploadURLPrefix = def.UploadURLPrefix
	}
	return cfg
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
