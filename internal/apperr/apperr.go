// Package apperr defines the machine-readable failure kinds returned by the
// chat core. Every failure carries a stable Code plus a human-readable message
// so transports can render it without inspecting error strings.
package apperr

import (
	"errors"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"

	// Relationship errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeSelfRequest       Code = "SELF_REQUEST"
	CodeAlreadyFriends    Code = "ALREADY_FRIENDS"
	CodeAlreadyRequested  Code = "ALREADY_REQUESTED"
	CodeReciprocalPending Code = "RECIPROCAL_PENDING"
	CodeNoPendingRequest  Code = "NO_PENDING_REQUEST"
	CodeNoActiveRequest   Code = "NO_ACTIVE_REQUEST"
	CodeNotFriends        Code = "NOT_FRIENDS"

	// Room errors
	CodeRoomNotFound     Code = "ROOM_NOT_FOUND"
	CodeRoomIsPublic     Code = "ROOM_IS_PUBLIC"
	CodeRoomIsPrivate    Code = "ROOM_IS_PRIVATE"
	CodeNotAuthorized    Code = "NOT_AUTHORIZED"
	CodeAlreadyMember    Code = "ALREADY_MEMBER"
	CodeNotMember        Code = "NOT_MEMBER"
	CodeOwnerCannotLeave Code = "OWNER_CANNOT_LEAVE"

	// Notification errors
	CodeNotFoundOrForbidden Code = "NOT_FOUND_OR_FORBIDDEN"

	// Account errors
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeRateLimited        Code = "RATE_LIMITED"

	// Storage errors
	CodeStorageWriteFailed Code = "STORAGE_WRITE_FAILED"
	CodeStorageCorrupted   Code = "STORAGE_CORRUPTED"
)

// Error is a typed failure. Two errors match under errors.Is when their codes
// are equal, so a sentinel still matches after WithMessage or Wrap.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New returns an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap returns an error with the given code that unwraps to err.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Err: e.Err}
}

// Wrap returns a copy of e that unwraps to err.
func (e *Error) Wrap(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// MessageOf returns the message of the first *Error in err's chain, or the
// empty string.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
