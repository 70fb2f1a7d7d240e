package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"fypportal/internal/qerrors"
)

type memoryRepository struct {
	mu      sync.Mutex
	users   map[string]*User
	inserts int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*User)}
}

func (m *memoryRepository) Create(_ context.Context, u *User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.FirebaseUID]; ok {
		return false, nil
	}
	copied := *u
	m.users[u.FirebaseUID] = &copied
	m.inserts++
	return true, nil
}

func (m *memoryRepository) Get(_ context.Context, uid string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, qerrors.UserNotFoundError
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepository) GetMany(ctx context.Context, uids []string) (map[string]*User, error) {
	out := make(map[string]*User)
	for _, uid := range uids {
		if u, err := m.Get(ctx, uid); err == nil {
			out[uid] = u
		}
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, req *UpdateUserRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[req.FirebaseUID]
	if !ok {
		return qerrors.UserNotFoundError
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.Name, req.Name)
	set(&u.UserID, req.UserID)
	set(&u.Department, req.Department)
	set(&u.Designation, req.Designation)
	set(&u.Phone, req.Phone)
	set(&u.PhotoURL, req.PhotoURL)
	set(&u.Bio, req.Bio)
	return nil
}

func (m *memoryRepository) ListByRole(_ context.Context, role Role) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*User
	for _, u := range m.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func TestRegisterDefaultsToStudent(t *testing.T) {
	s := NewService(newMemoryRepository())

	user, created, err := s.Register(context.Background(), &CreateUserRequest{FirebaseUID: "uid-1", Name: " Ada ", Email: "ada@uni.edu"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !created {
		t.Errorf("Expected user to be created")
	}
	if user.Role != RoleStudent {
		t.Errorf("Expected role student, got %q", user.Role)
	}
	if user.Name != "Ada" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	repo := newMemoryRepository()
	s := NewService(repo)
	ctx := context.Background()

	_, _, _ = s.Register(ctx, &CreateUserRequest{FirebaseUID: "uid-1", Name: "First"})
	_, created, err := s.Register(ctx, &CreateUserRequest{FirebaseUID: "uid-1", Name: "Second"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created {
		t.Errorf("Expected second registration to report an existing user")
	}
	if repo.inserts != 1 {
		t.Errorf("Expected exactly 1 insert, got %d", repo.inserts)
	}
	stored, _ := repo.Get(ctx, "uid-1")
	if stored.Name != "First" {
		t.Errorf("Expected stored user to be unchanged, got name %q", stored.Name)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := NewService(newMemoryRepository())
	ctx := context.Background()

	if _, _, err := s.Register(ctx, &CreateUserRequest{}); err != qerrors.MissingUIDError {
		t.Errorf("Expected MissingUIDError, got %v", err)
	}
	if _, _, err := s.Register(ctx, &CreateUserRequest{FirebaseUID: "uid", Role: "admin"}); err != qerrors.InvalidRoleError {
		t.Errorf("Expected InvalidRoleError, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := NewService(newMemoryRepository())
	ctx := context.Background()
	_, _, _ = s.Register(ctx, &CreateUserRequest{FirebaseUID: "uid-1", Name: "Ada", Role: RoleSupervisor})

	user, err := s.Update(ctx, &UpdateUserRequest{FirebaseUID: "uid-1", Department: strPtr("Computing"), Bio: strPtr("Distributed systems")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.Department != "Computing" || user.Bio != "Distributed systems" || user.Name != "Ada" {
		t.Errorf("Unexpected user after update: %+v", user)
	}

	if _, err := s.Update(ctx, &UpdateUserRequest{FirebaseUID: "uid-1"}); err != qerrors.NoFieldsToUpdateError {
		t.Errorf("Expected NoFieldsToUpdateError, got %v", err)
	}
	if _, err := s.Update(ctx, &UpdateUserRequest{FirebaseUID: "missing", Name: strPtr("x")}); err != qerrors.UserNotFoundError {
		t.Errorf("Expected UserNotFoundError, got %v", err)
	}
}

func TestSupervisorsSortedByName(t *testing.T) {
	s := NewService(newMemoryRepository())
	ctx := context.Background()
	_, _, _ = s.Register(ctx, &CreateUserRequest{FirebaseUID: "s1", Name: "zed", Role: RoleSupervisor})
	_, _, _ = s.Register(ctx, &CreateUserRequest{FirebaseUID: "s2", Name: "Amir", Role: RoleSupervisor})
	_, _, _ = s.Register(ctx, &CreateUserRequest{FirebaseUID: "st", Name: "Bea"})

	supervisors, err := s.Supervisors(ctx)
	if err != nil {
		t.Fatalf("Supervisors returned error: %v", err)
	}
	var names []string
	for _, u := range supervisors {
		names = append(names, u.Name)
	}
	if !reflect.DeepEqual(names, []string{"Amir", "zed"}) {
		t.Errorf("Expected [Amir zed], got %v", names)
	}
}

func TestRegisterHandlerTwice(t *testing.T) {
	repo := newMemoryRepository()
	app := httptest.NewServer(Routes(NewService(repo)))
	defer app.Close()

	body, _ := json.Marshal(map[string]string{"firebaseUid": "uid-1", "name": "Ada", "email": "ada@uni.edu"})

	resp, err := http.Post(app.URL+"/", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	resp, err = http.Post(app.URL+"/", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var msg map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || msg["message"] != "User already exists" {
		t.Errorf("Expected 200 'User already exists', got %d %v", resp.StatusCode, msg)
	}
	if repo.inserts != 1 {
		t.Errorf("Expected exactly 1 insert, got %d", repo.inserts)
	}
}

func TestGetUserHandlerNotFound(t *testing.T) {
	app := httptest.NewServer(Routes(NewService(newMemoryRepository())))
	defer app.Close()

	resp, err := http.Get(app.URL + "/nobody")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	var msg map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&msg)
	if msg["message"] != "User not found" {
		t.Errorf("Expected 'User not found', got %v", msg)
	}
}
