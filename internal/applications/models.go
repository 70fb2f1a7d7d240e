package applications

import (
	"strings"
	"time"
)

const (
	FirestoreApplicationsCollection = "applications"
)

type Type string

const (
	TypeStandard Type = "standard"
	TypeProposal Type = "proposal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Application links a student to a supervisor, either through a posted project (standard) or a
// student-proposed title with no backing project (proposal).
type Application struct {
	ID              string    `json:"id" mapstructure:"id"`
	StudentUID      string    `json:"studentUid" mapstructure:"studentUid"`
	ProjectID       string    `json:"projectId" mapstructure:"projectId"`
	SupervisorUID   string    `json:"supervisorUid" mapstructure:"supervisorUid"`
	Type            Type      `json:"type" mapstructure:"type"`
	Status          Status    `json:"status" mapstructure:"status"`
	ProjectTitle    string    `json:"projectTitle" mapstructure:"projectTitle"`
	TitleKey        string    `json:"-" mapstructure:"titleKey"`
	Details         string    `json:"details" mapstructure:"details"`
	RejectionReason string    `json:"rejectionReason,omitempty" mapstructure:"rejectionReason"`
	CreatedAt       time.Time `json:"createdAt" mapstructure:"createdAt"`
	DecidedAt       *time.Time `json:"decidedAt,omitempty" mapstructure:"decidedAt"`
}

// SupervisorApplication is an application joined with its project title and the applying
// student's profile.
type SupervisorApplication struct {
	ID              string    `json:"id"`
	StudentUID      string    `json:"studentUid"`
	ProjectID       string    `json:"projectId"`
	SupervisorUID   string    `json:"supervisorUid"`
	Type            Type      `json:"type"`
	Status          Status    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	ProjectTitle    string    `json:"projectTitle"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName"`
	StudentEmail    string    `json:"studentEmail"`
}

// SubmitRequest is the parameter struct to the Submit function.
type SubmitRequest struct {
	StudentUID    string `json:"studentUid"`
	ProjectID     string `json:"projectId"`
	SupervisorUID string `json:"supervisorUid"`
}

// ProposalRequest is the parameter struct to the SubmitProposal function.
type ProposalRequest struct {
	StudentUID    string `json:"studentUid"`
	SupervisorUID string `json:"supervisorUid"`
	ProjectTitle  string `json:"projectTitle"`
	Details       string `json:"details"`
}

// DecisionRequest is the parameter struct to the Decide function. SupervisorUID is optional; when
// set it must match the application's supervisor.
type DecisionRequest struct {
	ApplicationID string `json:"-"`
	Status        Status `json:"status"`
	Reason        string `json:"reason"`
	SupervisorUID string `json:"supervisorUid"`
}

// EditProposalRequest is the parameter struct to the EditProposal function.
type EditProposalRequest struct {
	ApplicationID string  `json:"-"`
	StudentUID    string  `json:"studentUid"`
	ProjectTitle  *string `json:"projectTitle"`
	Details       *string `json:"details"`
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
