package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"fypportal/internal/qerrors"
)

// Service is the searchable catalogue of completed projects.
type Service struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateCompletedProjectRequest) (*CompletedProject, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, qerrors.MissingTitleError
	}
	details := req.Details
	if details == nil {
		details = map[string]interface{}{}
	}

	p := &CompletedProject{Title: title, Details: details, CreatedAt: s.now()}
	if err := s.repository.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Search lists the catalogue newest first. A non-empty query keeps titles containing it, ignoring
// case, and returns at most SearchLimit entries.
func (s *Service) Search(ctx context.Context, query string) ([]*CompletedProject, error) {
	all, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		if all == nil {
			all = []*CompletedProject{}
		}
		return all, nil
	}

	matches := make([]*CompletedProject, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matches = append(matches, p)
			if len(matches) == SearchLimit {
				break
			}
		}
	}
	return matches, nil
}
