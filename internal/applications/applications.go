package applications

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"fypportal/internal/projects"
	"fypportal/internal/qerrors"
	"fypportal/internal/users"
)

// Projects is the booking side of the project catalogue.
type Projects interface {
	Book(ctx context.Context, projectID, studentUID string) (*projects.Project, error)
	Release(ctx context.Context, projectID, studentUID string) error
	Titles(ctx context.Context, projectIDs []string) (map[string]string, error)
}

// Students resolves student profiles for the supervisor view.
type Students interface {
	Profiles(ctx context.Context, uids []string) (map[string]*users.User, error)
}

// Notifier delivers a message to a user's notification feed.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) error
}

// Service runs the application workflow: booking a project, proposing a title, and the
// supervisor's decision.
type Service struct {
	repository Repository
	projects   Projects
	students   Students
	notifier   Notifier
	now        func() time.Time
}

func NewService(repository Repository, projects Projects, students Students, notifier Notifier) *Service {
	return &Service{
		repository: repository,
		projects:   projects,
		students:   students,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Submit books the project for the student and records a pending standard application. A project
// that is already booked fails with qerrors.ProjectAlreadyBooked and is left untouched, and a failed
// insert gives the booking back.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Application, error) {
	if req.StudentUID == "" || req.ProjectID == "" || req.SupervisorUID == "" {
		return nil, qerrors.MissingApplicationFields
	}

	project, err := s.projects.Book(ctx, req.ProjectID, req.StudentUID)
	if err != nil {
		return nil, err
	}

	a := &Application{
		StudentUID:    req.StudentUID,
		ProjectID:     req.ProjectID,
		SupervisorUID: req.SupervisorUID,
		Type:          TypeStandard,
		Status:        StatusPending,
		ProjectTitle:  project.Title,
		CreatedAt:     s.now(),
	}
	if err := s.repository.Create(ctx, a); err != nil {
		// The booking was taken for this attempt only; hand it back.
		if releaseErr := s.projects.Release(ctx, req.ProjectID, req.StudentUID); releaseErr != nil {
			glog.Errorf("error releasing project %s after failed application: %v\n", req.ProjectID, releaseErr)
		}
		return nil, err
	}
	return a, nil
}

// SubmitProposal records a pending proposal. No project is booked.
func (s *Service) SubmitProposal(ctx context.Context, req *ProposalRequest) (*Application, error) {
	title := strings.TrimSpace(req.ProjectTitle)
	if req.StudentUID == "" || req.SupervisorUID == "" || title == "" {
		return nil, qerrors.MissingApplicationFields
	}

	a := &Application{
		StudentUID:    req.StudentUID,
		SupervisorUID: req.SupervisorUID,
		Type:          TypeProposal,
		Status:        StatusPending,
		ProjectTitle:  title,
		TitleKey:      titleKey(title),
		Details:       strings.TrimSpace(req.Details),
		CreatedAt:     s.now(),
	}
	if err := s.repository.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Decide records a supervisor's accept or reject on a pending application. Rejecting a standard
// application puts its project back in the open pool. The student is notified either way.
func (s *Service) Decide(ctx context.Context, req *DecisionRequest) (*Application, error) {
	if req.Status != StatusAccepted && req.Status != StatusRejected {
		return nil, qerrors.InvalidDecisionError
	}
	reason := strings.TrimSpace(req.Reason)
	if req.Status == StatusRejected && reason == "" {
		return nil, qerrors.MissingReasonError
	}

	a, err := s.get(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if req.SupervisorUID != "" && req.SupervisorUID != a.SupervisorUID {
		return nil, qerrors.DecisionOwnershipError
	}
	if a.Status != StatusPending {
		return nil, qerrors.ApplicationDecidedError
	}

	at := s.now()
	if err := s.repository.SetDecision(ctx, a.ID, req.Status, reason, at); err != nil {
		return nil, err
	}
	a.Status = req.Status
	a.DecidedAt = &at
	a.RejectionReason = ""
	if req.Status == StatusRejected {
		a.RejectionReason = reason
	}

	if req.Status == StatusRejected && a.ProjectID != "" {
		if err := s.projects.Release(ctx, a.ProjectID, a.StudentUID); err != nil {
			glog.Errorf("error releasing project %s for rejected application %s: %v\n", a.ProjectID, a.ID, err)
		}
	}

	if err := s.notifier.Notify(ctx, a.StudentUID, decisionMessage(a)); err != nil {
		glog.Errorf("error notifying student %s of decision on %s: %v\n", a.StudentUID, a.ID, err)
	}
	return a, nil
}

// EditProposal lets a student change the title or details of their own pending proposal.
func (s *Service) EditProposal(ctx context.Context, req *EditProposalRequest) (*Application, error) {
	if req.StudentUID == "" {
		return nil, qerrors.Validationf("studentUid is required")
	}
	if req.ProjectTitle == nil && req.Details == nil {
		return nil, qerrors.NoFieldsToUpdateError
	}

	a, err := s.get(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if a.StudentUID != req.StudentUID {
		return nil, qerrors.ProposalOwnershipError
	}
	if a.Type != TypeProposal {
		return nil, qerrors.NotAProposalError
	}
	if a.Status != StatusPending {
		return nil, qerrors.ProposalDecidedError
	}

	if req.ProjectTitle != nil {
		title := strings.TrimSpace(*req.ProjectTitle)
		if title == "" {
			return nil, qerrors.Validationf("projectTitle must be a non-empty string")
		}
		req.ProjectTitle = &title

		mine, err := s.repository.ListByStudent(ctx, a.StudentUID)
		if err != nil {
			return nil, err
		}
		for _, other := range mine {
			if other.ID != a.ID && other.Type == TypeProposal && other.TitleKey == titleKey(title) {
				return nil, qerrors.DuplicateProposalError
			}
		}
	}
	if req.Details != nil {
		details := strings.TrimSpace(*req.Details)
		req.Details = &details
	}

	if err := s.repository.UpdateProposal(ctx, req); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, a.ID)
}

// ListForStudent returns a student's applications, newest first.
func (s *Service) ListForStudent(ctx context.Context, studentUID string) ([]*Application, error) {
	if studentUID == "" {
		return nil, qerrors.MissingListFilterError
	}

	apps, err := s.repository.ListByStudent(ctx, studentUID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	if apps == nil {
		apps = []*Application{}
	}
	return apps, nil
}

// ListForSupervisor returns the applications addressed to a supervisor, newest first, joined
// with each project's current title and the student's profile. Applications whose project no
// longer exists, and proposals, keep their stored title.
func (s *Service) ListForSupervisor(ctx context.Context, supervisorUID string) ([]*SupervisorApplication, error) {
	if supervisorUID == "" {
		return nil, qerrors.MissingListFilterError
	}

	apps, err := s.repository.ListBySupervisor(ctx, supervisorUID)
	if err != nil {
		return nil, err
	}

	projectIDs := make([]string, 0, len(apps))
	studentUIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		if a.ProjectID != "" {
			projectIDs = append(projectIDs, a.ProjectID)
		}
		studentUIDs = append(studentUIDs, a.StudentUID)
	}

	var titles map[string]string
	var profiles map[string]*users.User
	wg, gctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		var err error
		titles, err = s.projects.Titles(gctx, projectIDs)
		return err
	})
	wg.Go(func() error {
		var err error
		profiles, err = s.students.Profiles(gctx, studentUIDs)
		return err
	})
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*SupervisorApplication, 0, len(apps))
	for _, a := range apps {
		joined := &SupervisorApplication{
			ID:              a.ID,
			StudentUID:      a.StudentUID,
			ProjectID:       a.ProjectID,
			SupervisorUID:   a.SupervisorUID,
			Type:            a.Type,
			Status:          a.Status,
			RejectionReason: a.RejectionReason,
			CreatedAt:       a.CreatedAt,
			ProjectTitle:    a.ProjectTitle,
		}
		if title, ok := titles[a.ProjectID]; ok {
			joined.ProjectTitle = title
		}
		if student, ok := profiles[a.StudentUID]; ok {
			joined.StudentID = student.UserID
			joined.StudentName = student.Name
			joined.StudentEmail = student.Email
		}
		out = append(out, joined)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Service) get(ctx context.Context, id string) (*Application, error) {
	if id == "" {
		return nil, qerrors.ApplicationNotFoundError
	}
	return s.repository.Get(ctx, id)
}

func decisionMessage(a *Application) string {
	subject := "Your application"
	if a.ProjectTitle != "" {
		subject = fmt.Sprintf("Your application for %q", a.ProjectTitle)
	}
	if a.Status == StatusRejected {
		return fmt.Sprintf("%s was rejected. Reason: %s", subject, a.RejectionReason)
	}
	return fmt.Sprintf("%s was %s.", subject, a.Status)
}
