package logbooks

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"fypportal/internal/analytics"
	"fypportal/internal/qerrors"
)

// Notifier delivers a message to a user's notification feed.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) error
}

// Service manages weekly logbooks and the supervisor review gate.
type Service struct {
	repository Repository
	notifier   Notifier
	now        func() time.Time
}

func NewService(repository Repository, notifier Notifier) *Service {
	return &Service{repository: repository, notifier: notifier, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateLogbookRequest) (*Logbook, error) {
	if req.StudentUID == "" || req.ProjectID == "" || req.Week == nil || strings.TrimSpace(req.Date) == "" {
		return nil, qerrors.MissingLogbookFields
	}
	week, err := validateWeek(*req.Week)
	if err != nil {
		return nil, err
	}
	if req.Hours < 0 {
		return nil, qerrors.Validationf("hours must not be negative")
	}

	lb := &Logbook{
		StudentUID: req.StudentUID,
		ProjectID:  req.ProjectID,
		Week:       week,
		Date:       strings.TrimSpace(req.Date),
		Activities: req.Activities,
		Hours:      req.Hours,
		FileURL:    req.FileURL,
		Remarks:    req.Remarks,
		CreatedAt:  s.now(),
	}
	if err := s.repository.Create(ctx, lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// List returns the logbooks matching filter ordered by week, and newest first within a week.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Logbook, error) {
	logbooks, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logbooks, func(i, j int) bool {
		if logbooks[i].Week != logbooks[j].Week {
			return logbooks[i].Week < logbooks[j].Week
		}
		return logbooks[i].CreatedAt.After(logbooks[j].CreatedAt)
	})
	if logbooks == nil {
		logbooks = []*Logbook{}
	}
	return logbooks, nil
}

// Edit applies a partial update to a draft logbook and returns the stored result.
func (s *Service) Edit(ctx context.Context, req *EditLogbookRequest) (*Logbook, error) {
	if req.LogbookID == "" {
		return nil, qerrors.LogbookNotFoundError
	}
	if req.empty() {
		return nil, qerrors.NoFieldsToUpdateError
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) == "" {
		return nil, qerrors.Validationf("date must be a non-empty string")
	}
	if req.Hours != nil && *req.Hours < 0 {
		return nil, qerrors.Validationf("hours must not be negative")
	}

	if err := s.repository.Update(ctx, req); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, req.LogbookID)
}

// Review closes a draft logbook with the supervisor's feedback and notifies the student. The
// feedback may be empty.
func (s *Service) Review(ctx context.Context, id string, feedback *string) (*Logbook, error) {
	if feedback == nil {
		return nil, qerrors.MissingFeedbackError
	}
	if id == "" {
		return nil, qerrors.LogbookNotFoundError
	}

	lb, err := s.repository.Review(ctx, id, *feedback, s.now())
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your logbook for week %d has been reviewed.", lb.Week)
	if err := s.notifier.Notify(ctx, lb.StudentUID, message); err != nil {
		glog.Errorf("error notifying student %s of review on %s: %v\n", lb.StudentUID, lb.ID, err)
	}
	return lb, nil
}

// Delete removes a draft logbook.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return qerrors.LogbookNotFoundError
	}
	return s.repository.Delete(ctx, id)
}

// Summary reports logbook progress for a student, a project, or both.
func (s *Service) Summary(ctx context.Context, studentUID, projectID string) (*analytics.LogbookSummary, error) {
	if studentUID == "" && projectID == "" {
		return nil, qerrors.MissingSummaryFilter
	}

	logbooks, err := s.repository.List(ctx, Filter{StudentUID: studentUID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	entries := make([]*analytics.WeekEntry, 0, len(logbooks))
	for _, lb := range logbooks {
		entries = append(entries, &analytics.WeekEntry{Week: lb.Week, Hours: lb.Hours, Reviewed: lb.Reviewed})
	}
	return analytics.GenerateSummary(entries), nil
}

// ParseWeek reads a week filter from a query string. An empty string means no filter.
func ParseWeek(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	week, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, qerrors.InvalidWeekError
	}
	return validateWeek(week)
}

func validateWeek(week float64) (int, error) {
	if week < 1 || week != math.Trunc(week) || week > math.MaxInt32 {
		return 0, qerrors.InvalidWeekError
	}
	return int(week), nil
}

func duplicateWeekError(week int) error {
	return qerrors.Conflictf("Logbook for week %d already submitted", week)
}
