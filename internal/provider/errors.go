package provider

import "errors"

// ErrorKind categorizes backend errors for user-facing messaging.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindAuth
	KindNotFound
	KindRateLimit
	KindBadResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection failed"
	case KindAuth:
		return "authentication failed"
	case KindNotFound:
		return "not found"
	case KindRateLimit:
		return "rate limited"
	case KindBadResponse:
		return "malformed response"
	default:
		return "unknown error"
	}
}

// Error is a categorized error from a provider backend.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Kind extracts the category from any error produced by a provider client.
// Errors that did not originate in this package report KindUnknown.
func Kind(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
