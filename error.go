package wikidoc

import (
	"errors"
	"fmt"
)

// Application error codes. These map domain outcomes to a small, stable
// vocabulary that callers can branch on without string matching.
const (
	ECONFLICT    = "conflict"    // duplicate document key
	EFETCH       = "fetch_error" // upstream source transport or parse failure
	EINTERNAL    = "internal"    // unexpected internal error
	EINVALID     = "invalid"     // invalid input
	ENOTFOUND    = "not_found"   // document or topic does not exist
	EUNAVAILABLE = "unavailable" // storage connection unavailable
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description safe to show to callers.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("wikidoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps err looking for an application Error and returns its
// code. It returns an empty string for nil errors and EINTERNAL for errors
// without a code.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err looking for an application Error and returns its
// message. Non-application errors read as a generic message so internal
// details never leak to callers.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
