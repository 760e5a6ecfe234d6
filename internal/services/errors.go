package services

import "fmt"

// ValidationError reports input that failed a field rule
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateKeyError reports a unique field collision
type DuplicateKeyError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// NotFoundError reports a missing record for an action that needs one
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// UnavailableResourceError reports that no room satisfies a request
type UnavailableResourceError struct {
	RoomType string
	Message  string
}

func (e *UnavailableResourceError) Error() string {
	return e.Message
}

// StateConflictError reports an operation not permitted in the current
// state. Code identifies the conflict for clients.
type StateConflictError struct {
	Code    string
	Message string
}

func (e *StateConflictError) Error() string {
	return e.Message
}

// State conflict codes
const (
	ConflictAlreadyConfirmed     = "already_confirmed"
	ConflictConfirmationRequired = "confirmation_required"
	ConflictEditNotPermitted     = "edit_not_permitted"
	ConflictNoRoomAssigned       = "no_room_assigned"
	ConflictInvalidTransition    = "invalid_transition"
	ConflictRequestClosed        = "request_closed"
)

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
