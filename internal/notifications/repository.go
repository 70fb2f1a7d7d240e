package notifications

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access notifications from a database.
type Repository interface {
	// Create appends a notification and sets its ID.
	Create(ctx context.Context, n *Notification) error
	// ListForUser returns every notification addressed to the given user, in no particular order.
	ListForUser(ctx context.Context, userUID string) ([]*Notification, error)
}

type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new notification repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) Create(ctx context.Context, n *Notification) error {
	ref, _, err := r.firestoreClient.Collection(FirestoreNotificationsCollection).Add(ctx, map[string]interface{}{
		"userUid":   n.UserUID,
		"message":   n.Message,
		"read":      n.Read,
		"createdAt": n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	n.ID = ref.ID
	return nil
}

func (r *firebaseRepository) ListForUser(ctx context.Context, userUID string) ([]*Notification, error) {
	var out []*Notification
	iter := r.firestoreClient.Collection(FirestoreNotificationsCollection).Where("userUid", "==", userUID).Documents(ctx)
	err := repository.Each(iter, func(doc *firestore.DocumentSnapshot) error {
		var n Notification
		if err := repository.Decode(doc, &n); err != nil {
			return err
		}
		n.ID = doc.Ref.ID
		out = append(out, &n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	return out, nil
}
