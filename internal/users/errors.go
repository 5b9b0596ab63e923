package users

import (
	"errors"
	"fmt"
)

// Error types for user operations
const (
	ErrorTypeUnavailable = "unavailable"
	ErrorTypeNotFound    = "not_found"
	ErrorTypeBadInput    = "bad_input"
	ErrorTypeStoreFault  = "store_fault"
)

// UserError is the single error type returned by UserService operations.
type UserError struct {
	Type    string
	UserID  string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.UserID != "" {
		if e.Cause != nil {
			return fmt.Sprintf("user error [%s] for user %s: %s (caused by: %v)", e.Type, e.UserID, e.Message, e.Cause)
		}
		return fmt.Sprintf("user error [%s] for user %s: %s", e.Type, e.UserID, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s]: %s", e.Type, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// Detail is the client-facing description. For store faults it is the raw driver error.
func (e *UserError) Detail() string {
	if e.Type == ErrorTypeStoreFault && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// NewUnavailableError creates an error for requests served while the store is unreachable
func NewUnavailableError() *UserError {
	return &UserError{
		Type:    ErrorTypeUnavailable,
		Message: "Database connection not available",
	}
}

// NewUserNotFoundError creates an error for a missing or unparseable identifier
func NewUserNotFoundError(userID string) *UserError {
	return &UserError{
		Type:    ErrorTypeNotFound,
		UserID:  userID,
		Message: "User not found",
	}
}

// NewBadInputError creates an error for request bodies that fail shape validation
func NewBadInputError(message string, cause error) *UserError {
	return &UserError{
		Type:    ErrorTypeBadInput,
		Message: message,
		Cause:   cause,
	}
}

// NewStoreFaultError wraps any driver error that is not a miss
func NewStoreFaultError(operation string, cause error) *UserError {
	return &UserError{
		Type:    ErrorTypeStoreFault,
		Message: fmt.Sprintf("%s failed", operation),
		Cause:   cause,
	}
}

// ErrorType classifies err. Anything that is not a *UserError is a store fault.
func ErrorType(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Type
	}
	return ErrorTypeStoreFault
}

// IsNotFound reports whether err is a not-found UserError
func IsNotFound(err error) bool {
	return err != nil && ErrorType(err) == ErrorTypeNotFound
}
