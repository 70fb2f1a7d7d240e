package applications

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"fypportal/internal/qerrors"
	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access applications from a database.
type Repository interface {
	// Create saves a new application and sets its ID. Standard applications are unique per
	// (studentUid, projectId) and proposals per (studentUid, title ignoring case); a clash fails
	// with qerrors.DuplicateApplicationError or qerrors.DuplicateProposalError.
	Create(ctx context.Context, a *Application) error
	// Get returns the application with the given ID.
	Get(ctx context.Context, id string) (*Application, error)
	// ListByStudent returns every application made by a student.
	ListByStudent(ctx context.Context, studentUID string) ([]*Application, error)
	// ListBySupervisor returns every application addressed to a supervisor.
	ListBySupervisor(ctx context.Context, supervisorUID string) ([]*Application, error)
	// SetDecision records a supervisor's decision on a pending application. An application that
	// is no longer pending fails with qerrors.ApplicationDecidedError.
	SetDecision(ctx context.Context, id string, status Status, reason string, at time.Time) error
	// UpdateProposal changes a proposal's title and details.
	UpdateProposal(ctx context.Context, req *EditProposalRequest) error
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new application repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) applications() *firestore.CollectionRef {
	return r.firestoreClient.Collection(FirestoreApplicationsCollection)
}

func (r *firebaseRepository) Create(ctx context.Context, a *Application) error {
	clash := r.applications().Where("studentUid", "==", a.StudentUID).Where("type", "==", string(a.Type))
	duplicateErr := qerrors.DuplicateApplicationError
	if a.Type == TypeProposal {
		clash = clash.Where("titleKey", "==", a.TitleKey)
		duplicateErr = qerrors.DuplicateProposalError
	} else {
		clash = clash.Where("projectId", "==", a.ProjectID)
	}

	ref := r.applications().NewDoc()
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(clash.Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return duplicateErr
		}

		return tx.Create(ref, map[string]interface{}{
			"studentUid":    a.StudentUID,
			"projectId":     a.ProjectID,
			"supervisorUid": a.SupervisorUID,
			"type":          string(a.Type),
			"status":        string(a.Status),
			"projectTitle":  a.ProjectTitle,
			"titleKey":      a.TitleKey,
			"details":       a.Details,
			"createdAt":     a.CreatedAt,
		})
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	a.ID = ref.ID
	return nil
}

func (r *firebaseRepository) Get(ctx context.Context, id string) (*Application, error) {
	doc, err := r.applications().Doc(id).Get(ctx)
	if repository.IsNotFound(err) {
		return nil, qerrors.ApplicationNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting application: %w", err)
	}
	return decodeApplication(doc)
}

func (r *firebaseRepository) ListByStudent(ctx context.Context, studentUID string) ([]*Application, error) {
	return r.list(r.applications().Where("studentUid", "==", studentUID).Documents(ctx))
}

func (r *firebaseRepository) ListBySupervisor(ctx context.Context, supervisorUID string) ([]*Application, error) {
	return r.list(r.applications().Where("supervisorUid", "==", supervisorUID).Documents(ctx))
}

func (r *firebaseRepository) SetDecision(ctx context.Context, id string, status Status, reason string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "decidedAt", Value: at},
	}
	if status == StatusRejected {
		updates = append(updates, firestore.Update{Path: "rejectionReason", Value: reason})
	} else {
		updates = append(updates, firestore.Update{Path: "rejectionReason", Value: firestore.Delete})
	}

	ref := r.applications().Doc(id)
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if repository.IsNotFound(err) {
			return qerrors.ApplicationNotFoundError
		}
		if err != nil {
			return err
		}
		a, err := decodeApplication(doc)
		if err != nil {
			return err
		}
		if a.Status != StatusPending {
			return qerrors.ApplicationDecidedError
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error deciding application: %w", err)
	}
	return nil
}

func (r *firebaseRepository) UpdateProposal(ctx context.Context, req *EditProposalRequest) error {
	var updates []firestore.Update
	if req.ProjectTitle != nil {
		updates = append(updates,
			firestore.Update{Path: "projectTitle", Value: *req.ProjectTitle},
			firestore.Update{Path: "titleKey", Value: titleKey(*req.ProjectTitle)},
		)
	}
	if req.Details != nil {
		updates = append(updates, firestore.Update{Path: "details", Value: *req.Details})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := r.applications().Doc(req.ApplicationID).Update(ctx, updates)
	if repository.IsNotFound(err) {
		return qerrors.ApplicationNotFoundError
	}
	return err
}

func (r *firebaseRepository) list(iter *firestore.DocumentIterator) ([]*Application, error) {
	var out []*Application
	err := repository.Each(iter, func(doc *firestore.DocumentSnapshot) error {
		a, err := decodeApplication(doc)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return out, nil
}

func decodeApplication(doc *firestore.DocumentSnapshot) (*Application, error) {
	var a Application
	if err := repository.Decode(doc, &a); err != nil {
		return nil, err
	}
	a.ID = doc.Ref.ID
	return &a, nil
}
