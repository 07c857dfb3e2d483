package domain

import "errors"

// ErrorKind classifies service-level failures for transport mapping
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindForbidden     ErrorKind = "forbidden"
	KindInvalidParams ErrorKind = "invalid_params"
	KindProcessing    ErrorKind = "processing"
)

// Error is the terminal error type of the service layer. All four kinds abort
// the current call and leave the data model unchanged.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind)
}

// NewNotFound reports a missing entity or one outside the caller's tenant
// scope. The two are deliberately conflated to avoid leaking existence
// information across tenants.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewForbidden reports a failed tier check or credential mismatch
func NewForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewInvalidParams reports malformed or duplicate-violating input
func NewInvalidParams(message string) *Error {
	return &Error{Kind: KindInvalidParams, Message: message}
}

// NewProcessing reports an internal invariant violation
func NewProcessing(message string) *Error {
	return &Error{Kind: KindProcessing, Message: message}
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err is a NotFound error
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsForbidden reports whether err is a Forbidden error
func IsForbidden(err error) bool { return isKind(err, KindForbidden) }

// IsInvalidParams reports whether err is an InvalidParams error
func IsInvalidParams(err error) bool { return isKind(err, KindInvalidParams) }

// IsProcessing reports whether err is a Processing error
func IsProcessing(err error) bool { return isKind(err, KindProcessing) }
