package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeExpired      ErrorCode = "EXPIRED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error. Field is set for validation failures
// and names the first input field that was rejected.
type Error struct {
	Code    ErrorCode
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches domain errors by code and message so sentinel values survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports the first failing field of an input payload.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeInvalid, Field: field, Message: message}
}

// Common domain errors.
var (
	ErrTaskNotFound      = NewError(ErrCodeNotFound, "Task not found")
	ErrTagNotFound       = NewError(ErrCodeNotFound, "Tag not found")
	ErrSubtaskNotFound   = NewError(ErrCodeNotFound, "Subtask not found")
	ErrWorkspaceNotFound = NewError(ErrCodeNotFound, "Workspace not found")
	ErrNoMembership      = NewError(ErrCodeNotFound, "No workspace membership")
	ErrInviteNotFound    = NewError(ErrCodeNotFound, "Invite not found")
	ErrInviteExpired     = NewError(ErrCodeExpired, "This invite has expired")
	ErrNotAMember        = NewError(ErrCodeForbidden, "Not a member of this workspace")
	ErrDuplicateTagName  = NewError(ErrCodeConflict, "A tag with that name already exists")
	ErrUnauthenticated   = NewError(ErrCodeUnauthorized, "Not authenticated")
	ErrSessionNotFound   = NewError(ErrCodeUnauthorized, "Session not found")
	ErrInvalidPayload    = NewError(ErrCodeInvalid, "Invalid payload")
	ErrCacheMiss         = errors.New("cache miss")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Describe converts any error into the code and message that may be shown to a
// caller. Storage and programmer errors collapse to fallback so that raw driver
// text never leaves the service.
func Describe(err error, fallback string) (ErrorCode, string) {
	if err == nil {
		return "", ""
	}
	var dErr *Error
	if !errors.As(err, &dErr) {
		return ErrCodeInternal, fallback
	}
	switch dErr.Code {
	case ErrCodeInternal:
		return ErrCodeInternal, fallback
	case ErrCodeUnauthorized:
		return ErrCodeUnauthorized, ErrUnauthenticated.Message
	default:
		return dErr.Code, dErr.Message
	}
}
