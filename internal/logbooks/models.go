package logbooks

import "time"

const (
	FirestoreLogbooksCollection = "logbooks"
)

// Logbook is one week of a student's project log. It is a draft until a supervisor reviews it,
// after which it never changes.
type Logbook struct {
	ID                 string     `json:"id" mapstructure:"id"`
	StudentUID         string     `json:"studentUid" mapstructure:"studentUid"`
	ProjectID          string     `json:"projectId" mapstructure:"projectId"`
	Week               int        `json:"week" mapstructure:"week"`
	Date               string     `json:"date" mapstructure:"date"`
	Activities         string     `json:"activities" mapstructure:"activities"`
	Hours              float64    `json:"hours" mapstructure:"hours"`
	FileURL            string     `json:"fileUrl" mapstructure:"fileUrl"`
	Remarks            string     `json:"remarks" mapstructure:"remarks"`
	Reviewed           bool       `json:"reviewed" mapstructure:"reviewed"`
	SupervisorFeedback string     `json:"supervisorFeedback" mapstructure:"supervisorFeedback"`
	ReviewedAt         *time.Time `json:"reviewedAt,omitempty" mapstructure:"reviewedAt"`
	CreatedAt          time.Time  `json:"createdAt" mapstructure:"createdAt"`
}

type CreateLogbookRequest struct {
	StudentUID string   `json:"studentUid"`
	ProjectID  string   `json:"projectId"`
	Week       *float64 `json:"week"`
	Date       string   `json:"date"`
	Activities string   `json:"activities"`
	Hours      float64  `json:"hours"`
	FileURL    string   `json:"fileUrl"`
	Remarks    string   `json:"remarks"`
}

// EditLogbookRequest is the parameter struct to the Edit function. Nil fields are left as-is.
type EditLogbookRequest struct {
	LogbookID  string   `json:"-"`
	Activities *string  `json:"activities"`
	Hours      *float64 `json:"hours"`
	FileURL    *string  `json:"fileUrl"`
	Remarks    *string  `json:"remarks"`
	Date       *string  `json:"date"`
}

func (e *EditLogbookRequest) empty() bool {
	return e.Activities == nil && e.Hours == nil && e.FileURL == nil && e.Remarks == nil && e.Date == nil
}

// Filter narrows a logbook listing. Empty fields match everything.
type Filter struct {
	StudentUID string
	ProjectID  string
	Week       int
}
