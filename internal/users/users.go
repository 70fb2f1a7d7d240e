package users

import (
	"context"
	"sort"
	"strings"
	"time"

	"fypportal/internal/qerrors"
)

// Service registers users and manages their profiles.
type Service struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// Register creates a user from the request. Registering an existing uid is not an error: the
// stored user is left untouched and created is false.
func (s *Service) Register(ctx context.Context, req *CreateUserRequest) (user *User, created bool, err error) {
	if err := validateCreate(req); err != nil {
		return nil, false, err
	}

	role := req.Role
	if role == "" {
		role = RoleStudent
	}
	user = &User{
		FirebaseUID: req.FirebaseUID,
		Email:       strings.TrimSpace(req.Email),
		Name:        strings.TrimSpace(req.Name),
		UserID:      strings.TrimSpace(req.UserID),
		Role:        role,
		Department:  req.Department,
		Designation: req.Designation,
		Phone:       req.Phone,
		PhotoURL:    req.PhotoURL,
		Bio:         req.Bio,
		CreatedAt:   s.now(),
	}

	created, err = s.repository.Create(ctx, user)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

func (s *Service) Get(ctx context.Context, uid string) (*User, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, uid)
}

// Update applies a partial profile update and returns the stored result.
func (s *Service) Update(ctx context.Context, req *UpdateUserRequest) (*User, error) {
	if err := validateID(req.FirebaseUID); err != nil {
		return nil, err
	}
	if req.empty() {
		return nil, qerrors.NoFieldsToUpdateError
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, qerrors.Validationf("name must be a non-empty string")
	}

	if err := s.repository.Update(ctx, req); err != nil {
		return nil, err
	}
	return s.repository.Get(ctx, req.FirebaseUID)
}

// Supervisors lists every supervisor ordered by name.
func (s *Service) Supervisors(ctx context.Context) ([]*User, error) {
	supervisors, err := s.repository.ListByRole(ctx, RoleSupervisor)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(supervisors, func(i, j int) bool {
		return strings.ToLower(supervisors[i].Name) < strings.ToLower(supervisors[j].Name)
	})
	if supervisors == nil {
		supervisors = []*User{}
	}
	return supervisors, nil
}

// Profiles returns the registered users among uids, keyed by uid.
func (s *Service) Profiles(ctx context.Context, uids []string) (map[string]*User, error) {
	return s.repository.GetMany(ctx, uids)
}

// Validators.

func validateCreate(u *CreateUserRequest) error {
	if err := validateID(u.FirebaseUID); err != nil {
		return err
	}
	if u.Role != "" && u.Role != RoleStudent && u.Role != RoleSupervisor {
		return qerrors.InvalidRoleError
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return qerrors.MissingUIDError
	}
	if len(id) > 128 {
		return qerrors.Validationf("id string must not be longer than 128 characters")
	}
	if strings.Contains(id, "/") {
		return qerrors.Validationf("id must not contain '/'")
	}
	return nil
}
