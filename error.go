package prospect

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// ENOCREDENTIAL means no lookup API key has been configured.
	ENOCREDENTIAL = "no_credential"
	// EMISSINGNAME means the profile has no usable person name.
	EMISSINGNAME = "missing_name"
	// EMISSINGCOMPANY means the profile has neither a usable employer nor a domain.
	EMISSINGCOMPANY = "missing_company"
	// EUNAUTHORIZED means the lookup API rejected the credential (HTTP 401).
	EUNAUTHORIZED = "unauthorized"
	// ERATELIMIT means the lookup API quota or rate limit was exceeded (HTTP 429).
	ERATELIMIT = "rate_limit"
	// ELOOKUP is any other lookup API failure. Enrichment skips to the next strategy.
	ELOOKUP = "lookup"
	// EEXTRACTION means no profile field could be extracted at all.
	EEXTRACTION = "extraction"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message. These low-level internal error details should only be logged and
// reported to the operator of the application (not the end user).
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("prospect error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsFatal reports whether a lookup error must abort the strategy ladder.
// Credential rejections and quota exhaustion are fatal; everything else is not.
func IsFatal(err error) bool {
	switch ErrorCode(err) {
	case EUNAUTHORIZED, ERATELIMIT:
		return true
	}
	return false
}
