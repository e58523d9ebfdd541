package utils

import (
	"errors"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons. Controllers branch with errors.Is.
var (
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidPhone   = errors.New("invalid_phone")
	ErrInvalidChannel = errors.New("invalid_channel")
	ErrMissingContact = errors.New("missing_contact")

	// OTP ledger outcomes surfaced to the client.
	ErrNoPendingCode     = errors.New("no_pending_code")
	ErrCodeExpired       = errors.New("code_expired")
	ErrCodeMismatch      = errors.New("code_mismatch")
	ErrAttemptsExhausted = errors.New("attempts_exhausted")

	// Lifecycle engine errors.
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrWrongStatus      = errors.New("wrong_status")
	ErrAlreadyAssigned  = errors.New("already_assigned")
	ErrNotAssignedActor = errors.New("not_assigned_actor")
	ErrProblemNotFound  = errors.New("problem_not_found")
	ErrIdentityNotFound = errors.New("identity_not_found")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (Twilio, SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// RowVersionConflictError is returned when a transition lost a race.
// It carries the latest record so the controller can hand it back to
// the client for a refresh.
type RowVersionConflictError struct {
	Current any
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func NewRowVersionConflictError(current any) error {
	return &RowVersionConflictError{Current: current}
}
