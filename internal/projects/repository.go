package projects

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"fypportal/internal/qerrors"
	"fypportal/internal/repository"
)

// bookingAttempts bounds transaction retries when several students race for one project.
const bookingAttempts = 10

// Repository encapsulates the logic to access projects from a database.
type Repository interface {
	// Create saves a new project and sets its ID. It fails with qerrors.DuplicateProjectTitle if
	// another project already has the same normalized title.
	Create(ctx context.Context, p *Project) error
	// Get returns the project with the given ID.
	Get(ctx context.Context, id string) (*Project, error)
	// GetMany returns the projects that exist among ids, keyed by ID.
	GetMany(ctx context.Context, ids []string) (map[string]*Project, error)
	// ListByStatus returns every project with the given status.
	ListByStatus(ctx context.Context, status Status) ([]*Project, error)
	// ListBySupervisor returns every project owned by the supervisor.
	ListBySupervisor(ctx context.Context, supervisorUID string) ([]*Project, error)
	// Update applies the non-nil fields of the request. A new title is checked against every
	// other project in the same transaction and fails with qerrors.DuplicateProjectTitle.
	Update(ctx context.Context, req *EditProjectRequest, at time.Time) error
	// SetStatus changes a project's status.
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error
	// Delete removes a project.
	Delete(ctx context.Context, id string) error
	// Book atomically marks an unbooked project as booked by studentUID. It fails with
	// qerrors.ProjectAlreadyBooked if anyone holds the booking, and leaves the project untouched.
	Book(ctx context.Context, id, studentUID string, at time.Time) (*Project, error)
	// Release clears the booking on a project if studentUID still holds it, and reports whether
	// it did. A booking held by anyone else is left untouched.
	Release(ctx context.Context, id, studentUID string, at time.Time) (bool, error)
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new project repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) projects() *firestore.CollectionRef {
	return r.firestoreClient.Collection(FirestoreProjectsCollection)
}

func (r *firebaseRepository) Create(ctx context.Context, p *Project) error {
	ref := r.projects().NewDoc()
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.projects().Where("titleKey", "==", p.TitleKey).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return qerrors.DuplicateProjectTitle
		}

		return tx.Create(ref, map[string]interface{}{
			"title":            p.Title,
			"titleKey":         p.TitleKey,
			"description":      p.Description,
			"shortDescription": p.ShortDescription,
			"technologies":     p.Technologies,
			"duration":         p.Duration,
			"supervisorUid":    p.SupervisorUID,
			"supervisorName":   p.SupervisorName,
			"supervisorEmail":  p.SupervisorEmail,
			"status":           string(p.Status),
			"isBooked":         p.IsBooked,
			"bookedBy":         p.BookedBy,
			"createdAt":        p.CreatedAt,
			"updatedAt":        p.UpdatedAt,
		})
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error creating project: %w", err)
	}
	p.ID = ref.ID
	return nil
}

func (r *firebaseRepository) Get(ctx context.Context, id string) (*Project, error) {
	doc, err := r.projects().Doc(id).Get(ctx)
	if repository.IsNotFound(err) {
		return nil, qerrors.ProjectNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return decodeProject(doc)
}

func (r *firebaseRepository) GetMany(ctx context.Context, ids []string) (map[string]*Project, error) {
	out := make(map[string]*Project)
	refs := repository.Refs(r.projects(), ids)
	if len(refs) == 0 {
		return out, nil
	}

	docs, err := r.firestoreClient.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error getting projects: %w", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		p, err := decodeProject(doc)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, nil
}

func (r *firebaseRepository) ListByStatus(ctx context.Context, status Status) ([]*Project, error) {
	return r.list(r.projects().Where("status", "==", string(status)).Documents(ctx))
}

func (r *firebaseRepository) ListBySupervisor(ctx context.Context, supervisorUID string) ([]*Project, error) {
	return r.list(r.projects().Where("supervisorUid", "==", supervisorUID).Documents(ctx))
}

func (r *firebaseRepository) Update(ctx context.Context, req *EditProjectRequest, at time.Time) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: at}}
	if req.Title != nil {
		updates = append(updates,
			firestore.Update{Path: "title", Value: *req.Title},
			firestore.Update{Path: "titleKey", Value: titleKey(*req.Title)},
		)
	}
	if req.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *req.Description})
	}
	if req.ShortDescription != nil {
		updates = append(updates, firestore.Update{Path: "shortDescription", Value: *req.ShortDescription})
	}
	if req.Technologies != nil {
		updates = append(updates, firestore.Update{Path: "technologies", Value: *req.Technologies})
	}
	if req.Duration != nil {
		updates = append(updates, firestore.Update{Path: "duration", Value: *req.Duration})
	}

	ref := r.projects().Doc(req.ProjectID)
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if repository.IsNotFound(err) {
				return qerrors.ProjectNotFoundError
			}
			return err
		}
		if req.Title != nil {
			matches, err := tx.Documents(r.projects().Where("titleKey", "==", titleKey(*req.Title))).GetAll()
			if err != nil {
				return err
			}
			for _, doc := range matches {
				if doc.Ref.ID != req.ProjectID {
					return qerrors.DuplicateProjectTitle
				}
			}
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		if qerrors.KindOf(err) != 0 {
			return err
		}
		return fmt.Errorf("error updating project: %w", err)
	}
	return nil
}

func (r *firebaseRepository) SetStatus(ctx context.Context, id string, status Status, at time.Time) error {
	_, err := r.projects().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: at},
	})
	if repository.IsNotFound(err) {
		return qerrors.ProjectNotFoundError
	}
	return err
}

func (r *firebaseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.projects().Doc(id).Delete(ctx, firestore.Exists)
	if repository.IsNotFound(err) {
		return qerrors.ProjectNotFoundError
	}
	return err
}

func (r *firebaseRepository) Book(ctx context.Context, id, studentUID string, at time.Time) (*Project, error) {
	ref := r.projects().Doc(id)
	var booked *Project
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if repository.IsNotFound(err) {
			return qerrors.ProjectNotFoundError
		}
		if err != nil {
			return err
		}
		p, err := decodeProject(doc)
		if err != nil {
			return err
		}
		if p.IsBooked {
			return qerrors.ProjectAlreadyBooked
		}

		p.IsBooked = true
		p.BookedBy = studentUID
		p.UpdatedAt = at
		booked = p
		return tx.Update(ref, []firestore.Update{
			{Path: "isBooked", Value: true},
			{Path: "bookedBy", Value: studentUID},
			{Path: "updatedAt", Value: at},
		})
	}, firestore.MaxAttempts(bookingAttempts))
	if err != nil {
		return nil, err
	}
	return booked, nil
}

func (r *firebaseRepository) Release(ctx context.Context, id, studentUID string, at time.Time) (bool, error) {
	ref := r.projects().Doc(id)
	released := false
	err := r.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		released = false
		doc, err := tx.Get(ref)
		if repository.IsNotFound(err) {
			return qerrors.ProjectNotFoundError
		}
		if err != nil {
			return err
		}
		p, err := decodeProject(doc)
		if err != nil {
			return err
		}
		if !p.IsBooked || p.BookedBy != studentUID {
			return nil
		}

		released = true
		return tx.Update(ref, []firestore.Update{
			{Path: "isBooked", Value: false},
			{Path: "bookedBy", Value: ""},
			{Path: "updatedAt", Value: at},
		})
	}, firestore.MaxAttempts(bookingAttempts))
	if err != nil {
		return false, err
	}
	return released, nil
}

func (r *firebaseRepository) list(iter *firestore.DocumentIterator) ([]*Project, error) {
	var out []*Project
	err := repository.Each(iter, func(doc *firestore.DocumentSnapshot) error {
		p, err := decodeProject(doc)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return out, nil
}

func decodeProject(doc *firestore.DocumentSnapshot) (*Project, error) {
	var p Project
	if err := repository.Decode(doc, &p); err != nil {
		return nil, err
	}
	p.ID = doc.Ref.ID
	return &p, nil
}
