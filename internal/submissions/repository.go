package submissions

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"fypportal/internal/qerrors"
	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access submissions from a database.
type Repository interface {
	// Create saves a new submission and sets its ID. A second submission for the same
	// (studentUid, projectId, type) is rejected.
	Create(ctx context.Context, s *Submission) error
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, filter Filter) ([]*Submission, error)
	SetFeedback(ctx context.Context, id, feedback string, at time.Time) error
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new submission repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) submissions() *firestore.CollectionRef {
	return r.firestoreClient.Collection(FirestoreSubmissionsCollection)
}

func (r *firebaseRepository) Create(ctx context.Context, s *Submission) error {
	clash := r.submissions().
		Where("studentUid", "==", s.StudentUID).
		Where("projectId", "==", s.ProjectID).
		Where("type", "==", string(s.Type)).
		Limit(1)

	ref := r.submissions().NewDoc()
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(clash).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return duplicateError(s.Type)
		}

		return tx.Create(ref, map[string]interface{}{
			"studentUid": s.StudentUID,
			"projectId":  s.ProjectID,
			"type":       string(s.Type),
			"fileUrl":    s.FileURL,
			"note":       s.Note,
			"feedback":   s.Feedback,
			"createdAt":  s.CreatedAt,
		})
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error creating submission: %w", err)
	}
	s.ID = ref.ID
	return nil
}

func (r *firebaseRepository) Get(ctx context.Context, id string) (*Submission, error) {
	doc, err := r.submissions().Doc(id).Get(ctx)
	if repository.IsNotFound(err) {
		return nil, qerrors.SubmissionNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting submission: %w", err)
	}
	return decodeSubmission(doc)
}

func (r *firebaseRepository) List(ctx context.Context, filter Filter) ([]*Submission, error) {
	query := r.submissions().Query
	if filter.ProjectID != "" {
		query = query.Where("projectId", "==", filter.ProjectID)
	}
	if filter.StudentUID != "" {
		query = query.Where("studentUid", "==", filter.StudentUID)
	}

	var out []*Submission
	err := repository.Each(query.Documents(ctx), func(doc *firestore.DocumentSnapshot) error {
		s, err := decodeSubmission(doc)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	return out, nil
}

func (r *firebaseRepository) SetFeedback(ctx context.Context, id, feedback string, at time.Time) error {
	_, err := r.submissions().Doc(id).Update(ctx, []firestore.Update{
		{Path: "feedback", Value: feedback},
		{Path: "feedbackAt", Value: at},
	})
	if repository.IsNotFound(err) {
		return qerrors.SubmissionNotFoundError
	}
	return err
}

func decodeSubmission(doc *firestore.DocumentSnapshot) (*Submission, error) {
	var s Submission
	if err := repository.Decode(doc, &s); err != nil {
		return nil, err
	}
	s.ID = doc.Ref.ID
	return &s, nil
}
