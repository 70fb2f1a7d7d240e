package projects

import (
	"strings"
	"time"
)

const (
	FirestoreProjectsCollection = "projects"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusArchived Status = "archived"
)

// Project is a supervisor-posted project. At most one student can hold a booking on it.
type Project struct {
	ID               string    `json:"id" mapstructure:"id"`
	Title            string    `json:"title" mapstructure:"title"`
	TitleKey         string    `json:"-" mapstructure:"titleKey"`
	Description      string    `json:"description" mapstructure:"description"`
	ShortDescription string    `json:"shortDescription" mapstructure:"shortDescription"`
	Technologies     []string  `json:"technologies" mapstructure:"technologies"`
	Duration         string    `json:"duration" mapstructure:"duration"`
	SupervisorUID    string    `json:"supervisorUid" mapstructure:"supervisorUid"`
	SupervisorName   string    `json:"supervisorName" mapstructure:"supervisorName"`
	SupervisorEmail  string    `json:"supervisorEmail" mapstructure:"supervisorEmail"`
	Status           Status    `json:"status" mapstructure:"status"`
	IsBooked         bool      `json:"isBooked" mapstructure:"isBooked"`
	BookedBy         string    `json:"bookedBy" mapstructure:"bookedBy"`
	CreatedAt        time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" mapstructure:"updatedAt"`
}

// CreateProjectRequest is the parameter struct to the Create function.
type CreateProjectRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Technologies     []string `json:"technologies"`
	Duration         string   `json:"duration"`
	SupervisorUID    string   `json:"supervisorUid"`
	SupervisorName   string   `json:"supervisorName"`
	SupervisorEmail  string   `json:"supervisorEmail"`
	Status           Status   `json:"status"`
}

// EditProjectRequest is the parameter struct to the Edit function. Nil fields are left as-is.
type EditProjectRequest struct {
	ProjectID        string    `json:"-"`
	SupervisorUID    string    `json:"supervisorUid"`
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"shortDescription"`
	Technologies     *[]string `json:"technologies"`
	Duration         *string   `json:"duration"`
}

func (e *EditProjectRequest) empty() bool {
	return e.Title == nil && e.Description == nil && e.ShortDescription == nil &&
		e.Technologies == nil && e.Duration == nil
}

// titleKey normalizes a title for case-insensitive uniqueness checks.
func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
