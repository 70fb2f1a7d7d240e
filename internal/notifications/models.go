package notifications

import "time"

const (
	FirestoreNotificationsCollection = "notifications"
)

// Notification is a message for one user, written as a side effect of a status change.
type Notification struct {
	ID        string    `json:"id" mapstructure:"id"`
	UserUID   string    `json:"userUid" mapstructure:"userUid"`
	Message   string    `json:"message" mapstructure:"message"`
	Read      bool      `json:"read" mapstructure:"read"`
	CreatedAt time.Time `json:"createdAt" mapstructure:"createdAt"`
}
