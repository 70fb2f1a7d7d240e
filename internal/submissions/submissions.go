package submissions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"

	"fypportal/internal/qerrors"
)

// Notifier delivers a message to a user's notification feed.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) error
}

// Service accepts IP1/IP2 submissions and records supervisor feedback on them.
type Service struct {
	repository Repository
	notifier   Notifier
	now        func() time.Time
}

func NewService(repository Repository, notifier Notifier) *Service {
	return &Service{repository: repository, notifier: notifier, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	if req.StudentUID == "" || req.ProjectID == "" || req.Type == "" {
		return nil, qerrors.MissingSubmissionFields
	}
	if req.Type != TypeIP1 && req.Type != TypeIP2 {
		return nil, qerrors.InvalidSubmissionType
	}

	sub := &Submission{
		StudentUID: req.StudentUID,
		ProjectID:  req.ProjectID,
		Type:       req.Type,
		FileURL:    strings.TrimSpace(req.FileURL),
		Note:       req.Note,
		Feedback:   "",
		CreatedAt:  s.now(),
	}
	if err := s.repository.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns the submissions matching filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Submission, error) {
	subs, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	if subs == nil {
		subs = []*Submission{}
	}
	return subs, nil
}

// GiveFeedback attaches feedback to a submission, replacing any earlier feedback, and notifies
// the student.
func (s *Service) GiveFeedback(ctx context.Context, id, feedback string) (*Submission, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, qerrors.MissingFeedbackError
	}
	if id == "" {
		return nil, qerrors.SubmissionNotFoundError
	}

	sub, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repository.SetFeedback(ctx, id, feedback, at); err != nil {
		return nil, err
	}
	sub.Feedback = feedback
	sub.FeedbackAt = &at

	message := fmt.Sprintf("You received feedback for %s.", sub.Type)
	if err := s.notifier.Notify(ctx, sub.StudentUID, message); err != nil {
		glog.Errorf("error notifying student %s of feedback on %s: %v\n", sub.StudentUID, sub.ID, err)
	}
	return sub, nil
}

func duplicateError(t Type) error {
	return qerrors.Conflictf("%s already submitted", t)
}
