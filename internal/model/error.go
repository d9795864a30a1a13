package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Participant   string `json:"participant,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeSelfDraw             = "SELF_DRAW"
	ErrCodeExcludedPair         = "EXCLUDED_PAIR"
	ErrCodeDuplicateRecipient   = "DUPLICATE_RECIPIENT"
	ErrCodeUnknownParticipant   = "UNKNOWN_PARTICIPANT"
	ErrCodeNotActingParticipant = "NOT_ACTING_PARTICIPANT"
	ErrCodeAlreadyAssigned      = "ALREADY_ASSIGNED"
	ErrCodeRecipientRequired    = "RECIPIENT_REQUIRED"
	ErrCodeNotAssigned          = "NOT_ASSIGNED"
	ErrCodeInfeasible           = "INFEASIBLE"
	ErrCodeStoreUnavailable     = "STORE_UNAVAILABLE"
	ErrCodeInvalidRoster        = "INVALID_ROSTER"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a recoverable business rule failure. Message is safe to show
// to participants verbatim.
type DomainError struct {
	Code    string
	Message string
	// Participant is the name of the participant the failure is about, if any.
	Participant string
	// Err is the underlying cause for infrastructure failures.
	Err error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the
// package level sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewParticipantError creates a domain error naming the offending participant.
func NewParticipantError(code, participant, message string) *DomainError {
	return &DomainError{
		Code:        code,
		Message:     message,
		Participant: participant,
	}
}

// StoreUnavailable wraps a persistence failure.
func StoreUnavailable(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrInfeasible        = NewDomainError(ErrCodeInfeasible, "Unable to find a valid combination. Adjust the manual entries and try again.")
	ErrNotAssigned       = NewDomainError(ErrCodeNotAssigned, "No assignment found yet. Try again after the draw is complete.")
	ErrRecipientRequired = NewDomainError(ErrCodeRecipientRequired, "Select the person you drew.")
	ErrStoreUnavailable  = NewDomainError(ErrCodeStoreUnavailable, "Sync service is offline.")
	ErrNotActingGiver    = NewDomainError(ErrCodeNotActingParticipant, "You can only record your own draw.")
	ErrActingParticipant = NewDomainError(ErrCodeMissingField, "Pick your name before recording an entry.")
	ErrParticipantNeeded = NewDomainError(ErrCodeMissingField, "Select your name from the header first.")
	ErrEmptyStatePatch   = NewDomainError(ErrCodeMissingField, "Provide assignments, wishlists, messages and/or events in the request body.")
)
