package edit

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes edit errors.
type ErrorCode string

const (
	// ErrCodeNoSession indicates Commit or Cancel on a target that is not
	// being edited.
	ErrCodeNoSession ErrorCode = "NO_SESSION"

	// ErrCodeNotReady indicates activation before the page was hydrated.
	ErrCodeNotReady ErrorCode = "NOT_READY"

	// ErrCodeInvalidImage indicates an unusable image key or URL.
	ErrCodeInvalidImage ErrorCode = "INVALID_IMAGE"

	// ErrCodeIDExhausted indicates the id generator kept producing ids
	// that are already taken.
	ErrCodeIDExhausted ErrorCode = "ID_EXHAUSTED"
)

// ErrNilTarget is returned when a session operation gets a nil target.
var ErrNilTarget = errors.New("edit: nil target")

// Error is an edit-flow error with a stable code.
type Error struct {
	Code      ErrorCode
	Message   string
	ContentID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ContentID != "" {
		return fmt.Sprintf("%s: %s (id=%s)", e.Code, e.Message, e.ContentID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasCode reports whether err is an *Error with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

func newNoSessionError(id string) *Error {
	return &Error{Code: ErrCodeNoSession, Message: "target has no active edit session", ContentID: id}
}

func newNotReadyError(id string) *Error {
	return &Error{Code: ErrCodeNotReady, Message: "content not hydrated yet", ContentID: id}
}

func newInvalidImageError(key, reason string) *Error {
	return &Error{Code: ErrCodeInvalidImage, Message: reason, ContentID: key}
}
