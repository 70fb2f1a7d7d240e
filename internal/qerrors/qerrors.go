package qerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	Validation Kind = iota + 1
	NotFound
	Conflict
	Forbidden
	Unauthorized
)

// Error is a domain error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validationf builds a one-off validation error.
func Validationf(format string, args ...interface{}) *Error {
	return New(Validation, fmt.Sprintf(format, args...))
}

// Conflictf builds a one-off conflict error.
func Conflictf(format string, args ...interface{}) *Error {
	return New(Conflict, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of err, or 0 if err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode maps err to the HTTP status the API responds with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var (
	// Generic errors
	NoFieldsToUpdateError = New(Validation, "No valid fields to update")

	// User errors
	UserNotFoundError = New(NotFound, "User not found")
	InvalidRoleError  = New(Validation, "role must be student or supervisor")
	MissingUIDError   = New(Validation, "firebaseUid is required")

	// Identity errors
	MissingTokenError = New(Unauthorized, "You must be authenticated to access this resource")
	InvalidTokenError = New(Unauthorized, "Invalid or expired identity token")
	IdentityMismatch  = New(Forbidden, "You can only act as yourself")

	// Project errors
	ProjectNotFoundError      = New(NotFound, "Project not found")
	DuplicateProjectTitle     = New(Conflict, "Project title already exists")
	ProjectAlreadyBooked      = New(Conflict, "This project has already been chosen by another student")
	ProjectBookedDeleteError  = New(Conflict, "Cannot delete a booked project")
	ProjectOwnershipError     = New(Forbidden, "You can only edit your own projects")
	MissingProjectFieldsError = New(Validation, "title and supervisorUid are required")

	// Application errors
	ApplicationNotFoundError  = New(NotFound, "Application not found")
	MissingApplicationFields  = New(Validation, "Missing fields")
	DuplicateApplicationError = New(Conflict, "You already applied for this project.")
	DuplicateProposalError    = New(Conflict, "You already proposed a project with this title.")
	InvalidDecisionError      = New(Validation, "Valid status is required: accepted or rejected")
	MissingReasonError        = New(Validation, "A reason is required when rejecting an application")
	NotAProposalError         = New(Validation, "Only proposals can be edited")
	ProposalOwnershipError    = New(Forbidden, "You can only edit your own proposals")
	ProposalDecidedError      = New(Conflict, "Cannot edit a proposal after it has been decided")
	DecisionOwnershipError    = New(Forbidden, "You can only decide applications sent to you")
	ApplicationDecidedError   = New(Conflict, "Application has already been decided")
	MissingListFilterError    = New(Validation, "studentUid or supervisorUid is required")

	// Submission errors
	SubmissionNotFoundError = New(NotFound, "Submission not found")
	MissingSubmissionFields = New(Validation, "studentUid, projectId, and type are required")
	InvalidSubmissionType   = New(Validation, "type must be IP1 or IP2")
	MissingFeedbackError    = New(Validation, "feedback is required")

	// Logbook errors
	LogbookNotFoundError   = New(NotFound, "Logbook not found")
	MissingLogbookFields   = New(Validation, "studentUid, projectId, week (number) and date are required")
	LogbookReviewedEdit    = New(Conflict, "Cannot edit logbook after review")
	LogbookReviewedDelete  = New(Conflict, "Cannot delete reviewed logbook")
	LogbookAlreadyReviewed = New(Conflict, "Logbook has already been reviewed")
	InvalidWeekError       = New(Validation, "week must be a positive number")
	MissingSummaryFilter   = New(Validation, "studentUid or projectId is required")

	// Notification errors
	MissingUserUIDError = New(Validation, "userUid is required")

	// Catalog errors
	MissingTitleError = New(Validation, "title is required")

	// Upload errors
	NoFileUploadedError = New(Validation, "No file uploaded")
)
