package users

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"fypportal/internal/qerrors"
	"fypportal/internal/repository"
)

// Repository encapsulates the logic to access users from a database.
type Repository interface {
	// Create saves a new user. It reports false, without error, if the uid is already registered.
	Create(ctx context.Context, user *User) (bool, error)
	// Get returns the user with the given Firebase UID.
	Get(ctx context.Context, uid string) (*User, error)
	// GetMany returns the users that exist among uids, keyed by uid.
	GetMany(ctx context.Context, uids []string) (map[string]*User, error)
	// Update applies the non-nil fields of the request.
	Update(ctx context.Context, req *UpdateUserRequest) error
	// ListByRole returns every user with the given role.
	ListByRole(ctx context.Context, role Role) ([]*User, error)
}

// firebaseRepository queries and persists users in Firestore. Documents are keyed by Firebase
// UID, which makes registration idempotent.
type firebaseRepository struct {
	firestoreClient *firestore.Client
}

// NewFirebaseRepository creates a new user repository with Firebase as the database.
func NewFirebaseRepository(client *firestore.Client) Repository {
	return &firebaseRepository{firestoreClient: client}
}

func (r *firebaseRepository) users() *firestore.CollectionRef {
	return r.firestoreClient.Collection(FirestoreUsersCollection)
}

func (r *firebaseRepository) Create(ctx context.Context, u *User) (bool, error) {
	_, err := r.users().Doc(u.FirebaseUID).Create(ctx, map[string]interface{}{
		"firebaseUid": u.FirebaseUID,
		"email":       u.Email,
		"name":        u.Name,
		"userId":      u.UserID,
		"role":        string(u.Role),
		"department":  u.Department,
		"designation": u.Designation,
		"phone":       u.Phone,
		"photoUrl":    u.PhotoURL,
		"bio":         u.Bio,
		"createdAt":   u.CreatedAt,
	})
	if repository.IsAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error creating user: %w", err)
	}
	return true, nil
}

func (r *firebaseRepository) Get(ctx context.Context, uid string) (*User, error) {
	doc, err := r.users().Doc(uid).Get(ctx)
	if repository.IsNotFound(err) {
		return nil, qerrors.UserNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return decodeUser(doc)
}

func (r *firebaseRepository) GetMany(ctx context.Context, uids []string) (map[string]*User, error) {
	out := make(map[string]*User)
	refs := repository.Refs(r.users(), uids)
	if len(refs) == 0 {
		return out, nil
	}

	docs, err := r.firestoreClient.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error getting users: %w", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		out[doc.Ref.ID] = u
	}
	return out, nil
}

func (r *firebaseRepository) Update(ctx context.Context, req *UpdateUserRequest) error {
	var updates []firestore.Update
	add := func(path string, v *string) {
		if v != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *v})
		}
	}
	add("name", req.Name)
	add("userId", req.UserID)
	add("department", req.Department)
	add("designation", req.Designation)
	add("phone", req.Phone)
	add("photoUrl", req.PhotoURL)
	add("bio", req.Bio)

	_, err := r.users().Doc(req.FirebaseUID).Update(ctx, updates)
	if repository.IsNotFound(err) {
		return qerrors.UserNotFoundError
	}
	return err
}

func (r *firebaseRepository) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	var out []*User
	iter := r.users().Where("role", "==", string(role)).Documents(ctx)
	err := repository.Each(iter, func(doc *firestore.DocumentSnapshot) error {
		u, err := decodeUser(doc)
		if err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return out, nil
}

func decodeUser(doc *firestore.DocumentSnapshot) (*User, error) {
	var u User
	if err := repository.Decode(doc, &u); err != nil {
		return nil, err
	}
	if u.FirebaseUID == "" {
		u.FirebaseUID = doc.Ref.ID
	}
	return &u, nil
}
