package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access the completed-projects catalogue.
type Repository interface {
	Create(ctx context.Context, p *CompletedProject) error
	// List returns every catalogue entry, newest first.
	List(ctx context.Context) ([]*CompletedProject, error)
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new catalogue repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) Create(ctx context.Context, p *CompletedProject) error {
	ref, _, err := r.firestoreClient.Collection(FirestoreCompletedProjectsCollection).Add(ctx, map[string]interface{}{
		"title":     p.Title,
		"details":   p.Details,
		"createdAt": p.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("error creating completed project: %w", err)
	}
	p.ID = ref.ID
	return nil
}

func (r *firebaseRepository) List(ctx context.Context) ([]*CompletedProject, error) {
	iter := r.firestoreClient.Collection(FirestoreCompletedProjectsCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var out []*CompletedProject
	err := repository.Each(iter, func(doc *firestore.DocumentSnapshot) error {
		var p CompletedProject
		if err := repository.Decode(doc, &p); err != nil {
			return err
		}
		p.ID = doc.Ref.ID
		out = append(out, &p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing completed projects: %w", err)
	}
	return out, nil
}
