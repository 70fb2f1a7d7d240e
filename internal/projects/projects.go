package projects

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"

	"fypportal/internal/metrics"
	"fypportal/internal/qerrors"
)

// Service owns the project catalogue and the booking primitive the application workflow builds on.
type Service struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.SupervisorUID == "" {
		return nil, qerrors.MissingProjectFieldsError
	}

	status := req.Status
	if status == "" {
		status = StatusOpen
	}
	if status != StatusOpen && status != StatusArchived {
		return nil, qerrors.Validationf("status must be open or archived")
	}
	technologies := req.Technologies
	if technologies == nil {
		technologies = []string{}
	}

	now := s.now()
	p := &Project{
		Title:            title,
		TitleKey:         titleKey(title),
		Description:      strings.TrimSpace(req.Description),
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		Technologies:     technologies,
		Duration:         req.Duration,
		SupervisorUID:    req.SupervisorUID,
		SupervisorName:   req.SupervisorName,
		SupervisorEmail:  req.SupervisorEmail,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repository.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns open projects, newest first. A non-empty search keeps only projects whose title
// contains it, ignoring case.
func (s *Service) List(ctx context.Context, search string) ([]*Project, error) {
	open, err := s.repository.ListByStatus(ctx, StatusOpen)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]*Project, 0, len(open))
	for _, p := range open {
		if needle == "" || strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	newestFirst(out)
	return out, nil
}

// Mine returns every project owned by a supervisor, regardless of status.
func (s *Service) Mine(ctx context.Context, supervisorUID string) ([]*Project, error) {
	if supervisorUID == "" {
		return nil, qerrors.Validationf("supervisorUid is required")
	}

	owned, err := s.repository.ListBySupervisor(ctx, supervisorUID)
	if err != nil {
		return nil, err
	}
	if owned == nil {
		owned = []*Project{}
	}
	newestFirst(owned)
	return owned, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	if id == "" {
		return nil, qerrors.ProjectNotFoundError
	}
	return s.repository.Get(ctx, id)
}

// Edit applies an owner-scoped partial update and returns the stored project.
func (s *Service) Edit(ctx context.Context, req *EditProjectRequest) (*Project, error) {
	if req.SupervisorUID == "" {
		return nil, qerrors.Validationf("supervisorUid is required")
	}
	if req.empty() {
		return nil, qerrors.NoFieldsToUpdateError
	}

	p, err := s.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.SupervisorUID != req.SupervisorUID {
		return nil, qerrors.ProjectOwnershipError
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, qerrors.Validationf("title must be a non-empty string")
		}
		req.Title = &title
	}

	if err := s.repository.Update(ctx, req, s.now()); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, p.ID)
}

// Archive hides a project from the open listing. When supervisorUID is given it must own the
// project.
func (s *Service) Archive(ctx context.Context, id, supervisorUID string) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if supervisorUID != "" && p.SupervisorUID != supervisorUID {
		return nil, qerrors.ProjectOwnershipError
	}

	if err := s.repository.SetStatus(ctx, id, StatusArchived, s.now()); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, id)
}

// Delete hard-deletes an unbooked project owned by supervisorUID.
func (s *Service) Delete(ctx context.Context, id, supervisorUID string) error {
	if supervisorUID == "" {
		return qerrors.Validationf("supervisorUid is required")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.SupervisorUID != supervisorUID {
		return qerrors.ProjectOwnershipError
	}
	if p.IsBooked {
		return qerrors.ProjectBookedDeleteError
	}
	return s.repository.Delete(ctx, id)
}

// Book reserves an unbooked project for a student. Concurrent callers for the same project see
// exactly one success; the rest get qerrors.ProjectAlreadyBooked.
func (s *Service) Book(ctx context.Context, id, studentUID string) (*Project, error) {
	if id == "" {
		return nil, qerrors.ProjectNotFoundError
	}

	p, err := s.repository.Book(ctx, id, studentUID, s.now())
	if err == qerrors.ProjectAlreadyBooked {
		metrics.BookingConflicts.Inc()
		glog.Infof("booking conflict on project %s for student %s\n", id, studentUID)
	}
	return p, err
}

// Release puts a project back in the open pool if studentUID still holds its booking. A booking
// that has since passed to another student is kept.
func (s *Service) Release(ctx context.Context, id, studentUID string) error {
	released, err := s.repository.Release(ctx, id, studentUID, s.now())
	if err != nil {
		return err
	}
	if !released {
		glog.Infof("project %s not released: not held by student %s\n", id, studentUID)
	}
	return nil
}

// Titles returns the current title of each existing project among ids.
func (s *Service) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	found, err := s.repository.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(found))
	for id, p := range found {
		titles[id] = p.Title
	}
	return titles, nil
}

func newestFirst(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}
