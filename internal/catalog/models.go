package catalog

import "time"

const (
	FirestoreCompletedProjectsCollection = "completedProjects"

	// SearchLimit caps the number of results a title search returns.
	SearchLimit = 50
)

// CompletedProject is an entry in the reference catalogue of past projects. Details is free-form.
type CompletedProject struct {
	ID        string                 `json:"id" mapstructure:"id"`
	Title     string                 `json:"title" mapstructure:"title"`
	Details   map[string]interface{} `json:"details" mapstructure:"details"`
	CreatedAt time.Time              `json:"createdAt" mapstructure:"createdAt"`
}

type CreateCompletedProjectRequest struct {
	Title   string                 `json:"title"`
	Details map[string]interface{} `json:"details"`
}
