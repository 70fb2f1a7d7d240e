package submissions

import (
	"context"
	"os"
	"sync"
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

func TestFirebaseOneSubmissionPerType(t *testing.T) {
	repo := newEmulatorRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	student := "student-" + uuid.New().String()

	const attempts = 3
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &Submission{StudentUID: student, ProjectID: "p1", Type: TypeIP1, FileURL: "/uploads/ip1.pdf", CreatedAt: now})
			if err != nil && err.Error() != "IP1 already submitted" {
				t.Errorf("Unexpected Create error: %v", err)
			}
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("Expected exactly 1 IP1 submission, got %d", wins)
	}

	ip2 := &Submission{StudentUID: student, ProjectID: "p1", Type: TypeIP2, CreatedAt: now}
	if err := repo.Create(ctx, ip2); err != nil {
		t.Fatalf("Expected IP2 to succeed, got %v", err)
	}
	err := repo.Create(ctx, &Submission{StudentUID: student, ProjectID: "p1", Type: TypeIP2, CreatedAt: now})
	if qerrors.KindOf(err) != qerrors.Conflict || err.Error() != "IP2 already submitted" {
		t.Errorf("Expected IP2 conflict, got %v", err)
	}

	listed, err := repo.List(ctx, Filter{StudentUID: student})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("Expected 2 submissions, got %d", len(listed))
	}

	if err := repo.SetFeedback(ctx, ip2.ID, "Good start", now); err != nil {
		t.Fatalf("SetFeedback returned error: %v", err)
	}
	stored, err := repo.Get(ctx, ip2.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Feedback != "Good start" || stored.FeedbackAt == nil {
		t.Errorf("Unexpected stored submission %+v", stored)
	}
	if err := repo.SetFeedback(ctx, "missing-"+student, "x", now); err != qerrors.SubmissionNotFoundError {
		t.Errorf("Expected SubmissionNotFoundError, got %v", err)
	}
}
