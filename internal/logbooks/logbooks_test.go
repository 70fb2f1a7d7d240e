package logbooks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"fypportal/internal/analytics"
	"fypportal/internal/qerrors"
)

type memoryRepository struct {
	mu       sync.Mutex
	logbooks map[string]*Logbook
	nextID   int
}

func (m *memoryRepository) Create(_ context.Context, lb *Logbook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.logbooks {
		if existing.StudentUID == lb.StudentUID && existing.ProjectID == lb.ProjectID && existing.Week == lb.Week {
			return duplicateWeekError(lb.Week)
		}
	}
	m.nextID++
	lb.ID = "l" + strconv.Itoa(m.nextID)
	copied := *lb
	m.logbooks[lb.ID] = &copied
	return nil
}

func (m *memoryRepository) Get(_ context.Context, id string) (*Logbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lb, ok := m.logbooks[id]
	if !ok {
		return nil, qerrors.LogbookNotFoundError
	}
	copied := *lb
	return &copied, nil
}

func (m *memoryRepository) List(_ context.Context, filter Filter) ([]*Logbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Logbook
	for _, lb := range m.logbooks {
		if filter.StudentUID != "" && lb.StudentUID != filter.StudentUID {
			continue
		}
		if filter.ProjectID != "" && lb.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Week != 0 && lb.Week != filter.Week {
			continue
		}
		copied := *lb
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryRepository) draft(id string, reviewedErr error) (*Logbook, error) {
	lb, ok := m.logbooks[id]
	if !ok {
		return nil, qerrors.LogbookNotFoundError
	}
	if lb.Reviewed {
		return nil, reviewedErr
	}
	return lb, nil
}

func (m *memoryRepository) Update(_ context.Context, req *EditLogbookRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lb, err := m.draft(req.LogbookID, qerrors.LogbookReviewedEdit)
	if err != nil {
		return err
	}
	if req.Activities != nil {
		lb.Activities = *req.Activities
	}
	if req.Hours != nil {
		lb.Hours = *req.Hours
	}
	if req.Remarks != nil {
		lb.Remarks = *req.Remarks
	}
	if req.Date != nil {
		lb.Date = *req.Date
	}
	return nil
}

func (m *memoryRepository) Review(_ context.Context, id, feedback string, at time.Time) (*Logbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lb, err := m.draft(id, qerrors.LogbookAlreadyReviewed)
	if err != nil {
		return nil, err
	}
	lb.Reviewed = true
	lb.SupervisorFeedback = feedback
	lb.ReviewedAt = &at
	copied := *lb
	return &copied, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.draft(id, qerrors.LogbookReviewedDelete); err != nil {
		return err
	}
	delete(m.logbooks, id)
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, _, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func newTestService() (*Service, *memoryRepository, *recordingNotifier) {
	repo := &memoryRepository{logbooks: make(map[string]*Logbook)}
	notifier := &recordingNotifier{}
	s := NewService(repo, notifier)
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return s, repo, notifier
}

func week(w float64) *float64 { return &w }

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, s *Service, studentUID string, w float64, hours float64) *Logbook {
	t.Helper()
	lb, err := s.Create(context.Background(), &CreateLogbookRequest{
		StudentUID: studentUID,
		ProjectID:  "p1",
		Week:       week(w),
		Date:       "2026-05-01",
		Hours:      hours,
	})
	if err != nil {
		t.Fatalf("Create(week %v) returned error: %v", w, err)
	}
	return lb
}

func TestDuplicateWeekRejected(t *testing.T) {
	s, repo, _ := newTestService()
	mustCreate(t, s, "student-1", 3, 5)

	_, err := s.Create(context.Background(), &CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p1", Week: week(3), Date: "2026-05-08"})
	if qerrors.KindOf(err) != qerrors.Conflict || err.Error() != "Logbook for week 3 already submitted" {
		t.Errorf("Expected conflict 'Logbook for week 3 already submitted', got %v", err)
	}
	if len(repo.logbooks) != 1 {
		t.Errorf("Expected 1 stored logbook, got %d", len(repo.logbooks))
	}

	// Another student may log the same week.
	mustCreate(t, s, "student-2", 3, 5)
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		req *CreateLogbookRequest
		err error
	}{
		{&CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p1", Date: "2026-05-01"}, qerrors.MissingLogbookFields},
		{&CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p1", Week: week(2)}, qerrors.MissingLogbookFields},
		{&CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p1", Week: week(0), Date: "2026-05-01"}, qerrors.InvalidWeekError},
		{&CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p1", Week: week(2.5), Date: "2026-05-01"}, qerrors.InvalidWeekError},
	}
	for _, c := range cases {
		if _, err := s.Create(ctx, c.req); err != c.err {
			t.Errorf("Create(%+v): expected %v, got %v", c.req, c.err, err)
		}
	}
}

func TestListOrdering(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, s, "student-1", 2, 1)
	mustCreate(t, s, "student-1", 1, 1)
	older, _ := s.Create(ctx, &CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p2", Week: week(2), Date: "2026-05-01"})
	newer, _ := s.Create(ctx, &CreateLogbookRequest{StudentUID: "student-1", ProjectID: "p3", Week: week(2), Date: "2026-05-01"})

	logbooks, err := s.List(ctx, Filter{StudentUID: "student-1", Week: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	var ids []string
	for _, lb := range logbooks {
		ids = append(ids, lb.ID)
	}
	if len(ids) != 3 || ids[0] != newer.ID || ids[1] != older.ID {
		t.Errorf("Expected newest first within week 2, got %v", ids)
	}

	all, _ := s.List(ctx, Filter{StudentUID: "student-1"})
	var weeks []int
	for _, lb := range all {
		weeks = append(weeks, lb.Week)
	}
	if !reflect.DeepEqual(weeks, []int{1, 2, 2, 2}) {
		t.Errorf("Expected weeks ascending, got %v", weeks)
	}
}

func TestParseWeek(t *testing.T) {
	if w, err := ParseWeek(""); err != nil || w != 0 {
		t.Errorf("Expected no filter for empty week, got %d %v", w, err)
	}
	if w, err := ParseWeek("4"); err != nil || w != 4 {
		t.Errorf("Expected week 4, got %d %v", w, err)
	}
	for _, raw := range []string{"abc", "3abc", "-1", "1.5"} {
		if _, err := ParseWeek(raw); err != qerrors.InvalidWeekError {
			t.Errorf("ParseWeek(%q): expected InvalidWeekError, got %v", raw, err)
		}
	}
}

func TestReviewedLogbookIsImmutable(t *testing.T) {
	s, repo, notifier := newTestService()
	ctx := context.Background()
	lb := mustCreate(t, s, "student-1", 3, 6)

	edited, err := s.Edit(ctx, &EditLogbookRequest{LogbookID: lb.ID, Activities: strPtr("Wrote the parser")})
	if err != nil {
		t.Fatalf("Edit of draft returned error: %v", err)
	}
	if edited.Activities != "Wrote the parser" {
		t.Errorf("Expected activities to be updated, got %q", edited.Activities)
	}

	reviewed, err := s.Review(ctx, lb.ID, strPtr("Good progress"))
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	if !reviewed.Reviewed || reviewed.SupervisorFeedback != "Good progress" || reviewed.ReviewedAt == nil {
		t.Errorf("Unexpected reviewed logbook %+v", reviewed)
	}
	expectedMessages := []string{"Your logbook for week 3 has been reviewed."}
	if !reflect.DeepEqual(notifier.messages, expectedMessages) {
		t.Errorf("Expected %v, got %v", expectedMessages, notifier.messages)
	}

	before, _ := repo.Get(ctx, lb.ID)

	if _, err := s.Edit(ctx, &EditLogbookRequest{LogbookID: lb.ID, Remarks: strPtr("late change")}); err != qerrors.LogbookReviewedEdit {
		t.Errorf("Expected LogbookReviewedEdit, got %v", err)
	}
	if err := s.Delete(ctx, lb.ID); err != qerrors.LogbookReviewedDelete {
		t.Errorf("Expected LogbookReviewedDelete, got %v", err)
	}
	if _, err := s.Review(ctx, lb.ID, strPtr("again")); err != qerrors.LogbookAlreadyReviewed {
		t.Errorf("Expected LogbookAlreadyReviewed, got %v", err)
	}

	after, err := repo.Get(ctx, lb.ID)
	if err != nil {
		t.Fatalf("Expected reviewed logbook to still exist, got %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected reviewed logbook to be unchanged, before %+v after %+v", before, after)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("Expected no further notifications, got %v", notifier.messages)
	}
}

func TestReviewAllowsEmptyFeedback(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	lb := mustCreate(t, s, "student-1", 1, 2)

	if _, err := s.Review(ctx, lb.ID, nil); err != qerrors.MissingFeedbackError {
		t.Errorf("Expected MissingFeedbackError, got %v", err)
	}
	if _, err := s.Review(ctx, lb.ID, strPtr("")); err != nil {
		t.Errorf("Expected empty feedback to be accepted, got %v", err)
	}
}

func TestDeleteDraft(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	lb := mustCreate(t, s, "student-1", 1, 2)

	if err := s.Delete(ctx, lb.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := s.Delete(ctx, lb.ID); err != qerrors.LogbookNotFoundError {
		t.Errorf("Expected LogbookNotFoundError, got %v", err)
	}
	if _, err := s.Edit(ctx, &EditLogbookRequest{LogbookID: lb.ID}); err != qerrors.NoFieldsToUpdateError {
		t.Errorf("Expected NoFieldsToUpdateError, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	first := mustCreate(t, s, "student-1", 1, 4)
	mustCreate(t, s, "student-1", 3, 8)
	_, _ = s.Review(ctx, first.ID, strPtr("ok"))

	summary, err := s.Summary(ctx, "student-1", "")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.WeeksLogged != 2 || summary.WeeksReviewed != 1 || summary.TotalHours != 12 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if !reflect.DeepEqual(summary.MissingWeeks, []int{2}) || !reflect.DeepEqual(summary.PendingWeeks, []int{3}) {
		t.Errorf("Unexpected weeks in summary %+v", summary)
	}

	if _, err := s.Summary(ctx, "", ""); err != qerrors.MissingSummaryFilter {
		t.Errorf("Expected MissingSummaryFilter, got %v", err)
	}
}

func TestLogbookHandlers(t *testing.T) {
	s, _, _ := newTestService()
	app := httptest.NewServer(Routes(s))
	defer app.Close()

	body, _ := json.Marshal(map[string]interface{}{"studentUid": "student-1", "projectId": "p1", "week": 3, "date": "2026-05-01", "hours": 5})
	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		resp, err := http.Post(app.URL+"/", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != expected {
			t.Errorf("Request %d: expected %d, got %d", i, expected, resp.StatusCode)
		}
	}

	resp, err := http.Get(app.URL + "/?week=abc")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric week, got %d", resp.StatusCode)
	}

	resp, err = http.Get(app.URL + "/summary?studentUid=student-1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var summary analytics.LogbookSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.WeeksLogged != 1 || summary.TotalHours != 5 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}
