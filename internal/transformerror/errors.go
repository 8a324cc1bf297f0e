// Package transformerror defines the error taxonomy used when a submission to the
// transformation service does not produce ISO 20022 documents.
package transformerror

import (
	"errors"
	"fmt"
)

// Kind classifies why a submission failed.
type Kind string

const (
	// ValidationError is raised before any network call, e.g. for an empty message.
	ValidationError Kind = "ValidationError"
	// TransportError covers network failures and non-2xx HTTP statuses.
	TransportError Kind = "TransportError"
	// BusinessError is a semantic failure reported by the service in the versioned envelope.
	BusinessError Kind = "BusinessError"
	// MalformedResponseError marks a body that is neither XML nor JSON. It is degraded
	// gracefully by showing the raw body, so it rarely reaches the user as a failure.
	MalformedResponseError Kind = "MalformedResponseError"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Error is a classified submission failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // HTTP status when the failure came from a response, 0 otherwise
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. This lets callers write
// errors.Is(err, &transformerror.Error{Kind: transformerror.TransportError}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates a classified error with a display message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err under kind, keeping it as the cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
