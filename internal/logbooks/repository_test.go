package logbooks

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"fypportal/internal/qerrors"
)

func newEmulatorRepository(t *testing.T) Repository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("set FIRESTORE_EMULATOR_HOST to run")
	}
	client, err := firestore.NewClient(context.Background(), "fyp-portal-test")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewFirebaseRepository(client)
}

func TestFirebaseOneLogbookPerWeek(t *testing.T) {
	repo := newEmulatorRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	student := "student-" + uuid.New().String()

	first := &Logbook{StudentUID: student, ProjectID: "p1", Week: 3, Date: "2026-03-02", Hours: 6, CreatedAt: now}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	again := &Logbook{StudentUID: student, ProjectID: "p1", Week: 3, Date: "2026-03-03", CreatedAt: now}
	err := repo.Create(ctx, again)
	if qerrors.KindOf(err) != qerrors.Conflict || err.Error() != "Logbook for week 3 already submitted" {
		t.Errorf("Expected week 3 conflict, got %v", err)
	}

	otherProject := &Logbook{StudentUID: student, ProjectID: "p2", Week: 3, Date: "2026-03-02", CreatedAt: now}
	if err := repo.Create(ctx, otherProject); err != nil {
		t.Errorf("Expected the same week on another project to succeed, got %v", err)
	}

	listed, err := repo.List(ctx, Filter{StudentUID: student, ProjectID: "p1"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != first.ID || listed[0].Week != 3 || listed[0].Hours != 6 {
		t.Errorf("Unexpected listing %+v", listed)
	}
}

func TestFirebaseReviewedLogbookIsImmutable(t *testing.T) {
	repo := newEmulatorRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	student := "student-" + uuid.New().String()

	lb := &Logbook{StudentUID: student, ProjectID: "p1", Week: 1, Date: "2026-02-16", Activities: "Reading", CreatedAt: now}
	draft := &Logbook{StudentUID: student, ProjectID: "p1", Week: 2, Date: "2026-02-23", CreatedAt: now}
	for _, l := range []*Logbook{lb, draft} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	activities := "Reading and prototyping"
	if err := repo.Update(ctx, &EditLogbookRequest{LogbookID: lb.ID, Activities: &activities}); err != nil {
		t.Fatalf("Update of a draft returned error: %v", err)
	}

	reviewed, err := repo.Review(ctx, lb.ID, "", now)
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	if !reviewed.Reviewed || reviewed.Activities != activities {
		t.Errorf("Unexpected reviewed logbook %+v", reviewed)
	}

	remarks := "late edit"
	if err := repo.Update(ctx, &EditLogbookRequest{LogbookID: lb.ID, Remarks: &remarks}); err != qerrors.LogbookReviewedEdit {
		t.Errorf("Expected LogbookReviewedEdit, got %v", err)
	}
	if _, err := repo.Review(ctx, lb.ID, "again", now); err != qerrors.LogbookAlreadyReviewed {
		t.Errorf("Expected LogbookAlreadyReviewed, got %v", err)
	}
	if err := repo.Delete(ctx, lb.ID); err != qerrors.LogbookReviewedDelete {
		t.Errorf("Expected LogbookReviewedDelete, got %v", err)
	}

	stored, err := repo.Get(ctx, lb.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !stored.Reviewed || stored.Remarks != "" || stored.SupervisorFeedback != "" || stored.ReviewedAt == nil {
		t.Errorf("Expected reviewed logbook unchanged, got %+v", stored)
	}

	if err := repo.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete of a draft returned error: %v", err)
	}
	if _, err := repo.Get(ctx, draft.ID); err != qerrors.LogbookNotFoundError {
		t.Errorf("Expected LogbookNotFoundError after delete, got %v", err)
	}
	if err := repo.Delete(ctx, draft.ID); err != qerrors.LogbookNotFoundError {
		t.Errorf("Expected LogbookNotFoundError deleting twice, got %v", err)
	}
}
