package users

import "time"

const (
	FirestoreUsersCollection = "users"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
)

// User is a registered portal user, keyed by their Firebase UID.
type User struct {
	FirebaseUID string    `json:"firebaseUid" mapstructure:"firebaseUid"`
	Email       string    `json:"email" mapstructure:"email"`
	Name        string    `json:"name" mapstructure:"name"`
	UserID      string    `json:"userId" mapstructure:"userId"`
	Role        Role      `json:"role" mapstructure:"role"`
	Department  string    `json:"department" mapstructure:"department"`
	Designation string    `json:"designation" mapstructure:"designation"`
	Phone       string    `json:"phone" mapstructure:"phone"`
	PhotoURL    string    `json:"photoUrl" mapstructure:"photoUrl"`
	Bio         string    `json:"bio" mapstructure:"bio"`
	CreatedAt   time.Time `json:"createdAt" mapstructure:"createdAt"`
}

// CreateUserRequest is the parameter struct for the Register function.
type CreateUserRequest struct {
	FirebaseUID string `json:"firebaseUid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	UserID      string `json:"userId"`
	Role        Role   `json:"role"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
	PhotoURL    string `json:"photoUrl"`
	Bio         string `json:"bio"`
}

// UpdateUserRequest is the parameter struct for the Update function. Nil fields are left as-is.
type UpdateUserRequest struct {
	// Will be set from the URL
	FirebaseUID string  `json:"-"`
	Name        *string `json:"name"`
	UserID      *string `json:"userId"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photoUrl"`
	Bio         *string `json:"bio"`
}

func (u *UpdateUserRequest) empty() bool {
	return u.Name == nil && u.UserID == nil && u.Department == nil && u.Designation == nil &&
		u.Phone == nil && u.PhotoURL == nil && u.Bio == nil
}
