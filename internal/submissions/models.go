package submissions

import "time"

const (
	FirestoreSubmissionsCollection = "submissions"
)

// Type is the assessment a submission is for.
type Type string

const (
	TypeIP1 Type = "IP1"
	TypeIP2 Type = "IP2"
)

type Submission struct {
	ID         string     `json:"id" mapstructure:"id"`
	StudentUID string     `json:"studentUid" mapstructure:"studentUid"`
	ProjectID  string     `json:"projectId" mapstructure:"projectId"`
	Type       Type       `json:"type" mapstructure:"type"`
	FileURL    string     `json:"fileUrl" mapstructure:"fileUrl"`
	Note       string     `json:"note" mapstructure:"note"`
	Feedback   string     `json:"feedback" mapstructure:"feedback"`
	CreatedAt  time.Time  `json:"createdAt" mapstructure:"createdAt"`
	FeedbackAt *time.Time `json:"feedbackAt,omitempty" mapstructure:"feedbackAt"`
}

type CreateSubmissionRequest struct {
	StudentUID string `json:"studentUid"`
	ProjectID  string `json:"projectId"`
	Type       Type   `json:"type"`
	FileURL    string `json:"fileUrl"`
	Note       string `json:"note"`
}

// Filter narrows a submission listing. Empty fields match everything.
type Filter struct {
	ProjectID  string
	StudentUID string
}
