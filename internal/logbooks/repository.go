package logbooks

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"fypportal/internal/qerrors"
	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access logbooks from a database. The draft-only
// operations check the reviewed flag and write in the same transaction, so a review that lands
// first always wins.
type Repository interface {
	// Create saves a new logbook and sets its ID. A second logbook for the same
	// (studentUid, projectId, week) is rejected.
	Create(ctx context.Context, lb *Logbook) error
	Get(ctx context.Context, id string) (*Logbook, error)
	List(ctx context.Context, filter Filter) ([]*Logbook, error)
	// Update applies the non-nil fields of a draft logbook.
	Update(ctx context.Context, req *EditLogbookRequest) error
	// Review marks a draft logbook reviewed and returns it.
	Review(ctx context.Context, id, feedback string, at time.Time) (*Logbook, error)
	// Delete removes a draft logbook.
	Delete(ctx context.Context, id string) error
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new logbook repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) logbooks() *firestore.CollectionRef {
	return r.firestoreClient.Collection(FirestoreLogbooksCollection)
}

func (r *firebaseRepository) Create(ctx context.Context, lb *Logbook) error {
	clash := r.logbooks().
		Where("studentUid", "==", lb.StudentUID).
		Where("projectId", "==", lb.ProjectID).
		Where("week", "==", lb.Week).
		Limit(1)

	ref := r.logbooks().NewDoc()
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(clash).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return duplicateWeekError(lb.Week)
		}

		return tx.Create(ref, map[string]interface{}{
			"studentUid":         lb.StudentUID,
			"projectId":          lb.ProjectID,
			"week":               lb.Week,
			"date":               lb.Date,
			"activities":         lb.Activities,
			"hours":              lb.Hours,
			"fileUrl":            lb.FileURL,
			"remarks":            lb.Remarks,
			"reviewed":           false,
			"supervisorFeedback": "",
			"createdAt":          lb.CreatedAt,
		})
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error creating logbook: %w", err)
	}
	lb.ID = ref.ID
	return nil
}

func (r *firebaseRepository) Get(ctx context.Context, id string) (*Logbook, error) {
	doc, err := r.logbooks().Doc(id).Get(ctx)
	if repository.IsNotFound(err) {
		return nil, qerrors.LogbookNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting logbook: %w", err)
	}
	return decodeLogbook(doc)
}

func (r *firebaseRepository) List(ctx context.Context, filter Filter) ([]*Logbook, error) {
	query := r.logbooks().Query
	if filter.StudentUID != "" {
		query = query.Where("studentUid", "==", filter.StudentUID)
	}
	if filter.ProjectID != "" {
		query = query.Where("projectId", "==", filter.ProjectID)
	}
	if filter.Week != 0 {
		query = query.Where("week", "==", filter.Week)
	}

	var out []*Logbook
	err := repository.Each(query.Documents(ctx), func(doc *firestore.DocumentSnapshot) error {
		lb, err := decodeLogbook(doc)
		if err != nil {
			return err
		}
		out = append(out, lb)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing logbooks: %w", err)
	}
	return out, nil
}

func (r *firebaseRepository) Update(ctx context.Context, req *EditLogbookRequest) error {
	var updates []firestore.Update
	if req.Activities != nil {
		updates = append(updates, firestore.Update{Path: "activities", Value: *req.Activities})
	}
	if req.Hours != nil {
		updates = append(updates, firestore.Update{Path: "hours", Value: *req.Hours})
	}
	if req.FileURL != nil {
		updates = append(updates, firestore.Update{Path: "fileUrl", Value: *req.FileURL})
	}
	if req.Remarks != nil {
		updates = append(updates, firestore.Update{Path: "remarks", Value: *req.Remarks})
	}
	if req.Date != nil {
		updates = append(updates, firestore.Update{Path: "date", Value: *req.Date})
	}
	if len(updates) == 0 {
		return qerrors.NoFieldsToUpdateError
	}

	return r.inDraft(ctx, req.LogbookID, qerrors.LogbookReviewedEdit, func(tx *firestore.Transaction, ref *firestore.DocumentRef, _ *Logbook) error {
		return tx.Update(ref, updates)
	})
}

func (r *firebaseRepository) Review(ctx context.Context, id, feedback string, at time.Time) (*Logbook, error) {
	var reviewed *Logbook
	err := r.inDraft(ctx, id, qerrors.LogbookAlreadyReviewed, func(tx *firestore.Transaction, ref *firestore.DocumentRef, lb *Logbook) error {
		lb.Reviewed = true
		lb.SupervisorFeedback = feedback
		lb.ReviewedAt = &at
		reviewed = lb
		return tx.Update(ref, []firestore.Update{
			{Path: "reviewed", Value: true},
			{Path: "supervisorFeedback", Value: feedback},
			{Path: "reviewedAt", Value: at},
		})
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (r *firebaseRepository) Delete(ctx context.Context, id string) error {
	return r.inDraft(ctx, id, qerrors.LogbookReviewedDelete, func(tx *firestore.Transaction, ref *firestore.DocumentRef, _ *Logbook) error {
		return tx.Delete(ref)
	})
}

// inDraft runs fn in a transaction on a logbook that has not been reviewed. A reviewed logbook
// fails with reviewedErr and is not written.
func (r *firebaseRepository) inDraft(ctx context.Context, id string, reviewedErr error,
	fn func(tx *firestore.Transaction, ref *firestore.DocumentRef, lb *Logbook) error) error {
	ref := r.logbooks().Doc(id)
	return r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if repository.IsNotFound(err) {
			return qerrors.LogbookNotFoundError
		}
		if err != nil {
			return err
		}
		lb, err := decodeLogbook(doc)
		if err != nil {
			return err
		}
		if lb.Reviewed {
			return reviewedErr
		}
		return fn(tx, ref, lb)
	})
}

func decodeLogbook(doc *firestore.DocumentSnapshot) (*Logbook, error) {
	var lb Logbook
	if err := repository.Decode(doc, &lb); err != nil {
		return nil, err
	}
	lb.ID = doc.Ref.ID
	return &lb, nil
}
