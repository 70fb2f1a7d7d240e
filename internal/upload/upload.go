package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// Service names uploaded files and hands them to a Store.
type Service struct {
	store     Store
	urlPrefix string
	now       func() time.Time
	newID     func() string
}

// NewService creates an upload service whose file URLs start with urlPrefix.
func NewService(store Store, urlPrefix string) *Service {
	return &Service{
		store:     store,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Save stores r under a fresh collision-free name that keeps the original extension, and
// returns the URL it is served under.
func (s *Service) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.newID(), extension(originalName))
	if err := s.store.Save(ctx, name, r); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + name, nil
}

// Files serves the upload directory under prefix.
func Files(dir, prefix string) http.Handler {
	return http.StripPrefix(strings.TrimRight(prefix, "/")+"/", http.FileServer(http.Dir(dir)))
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
