// Package common defines the closed error taxonomy and small helpers shared
// by all layers of the wikisync client. Every failure that crosses a
// component boundary is one of the Kind values below; callers should match
// with IsKind or KindOf rather than by message text.
package common

import (
	"errors"
	"fmt"
)

// Kind identifies one of the failure reasons in the closed taxonomy.
type Kind string

const (
	KindPageNotFound        Kind = "page_not_found"
	KindPageLoadFailed      Kind = "page_load_failed"
	KindPageCreateFailed    Kind = "page_create_failed"
	KindPagePublishFailed   Kind = "page_publish_failed"
	KindAccessDenied        Kind = "access_denied"
	KindNetwork             Kind = "network"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindAuthorizationFailed Kind = "authorization_failed"
	KindActionCancelled     Kind = "action_cancelled"
)

// defaultMessages holds the human-readable message used when an Error
// carries no override.
var defaultMessages = map[Kind]string{
	KindPageNotFound:        "page does not exist",
	KindPageLoadFailed:      "page loading failed",
	KindPageCreateFailed:    "page creation failed",
	KindPagePublishFailed:   "page publishing failed",
	KindAccessDenied:        "access denied",
	KindNetwork:             "network error",
	KindInvalidCredentials:  "invalid credentials",
	KindAuthorizationFailed: "authorization failed",
	KindActionCancelled:     "action cancelled",
}

// Error is a taxonomy failure: a Kind, an optional message override and an
// optional wrapped cause. The cause never crosses a component boundary on
// its own; it is kept only for logging and errors.Is chains.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Kind]
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, &Error{Kind: k}) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError returns a taxonomy error with the default message for kind.
func NewError(kind Kind) *Error {
	return &Error{Kind: kind}
}

// NewErrorf returns a taxonomy error with an overridden message.
func NewErrorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a cause to a taxonomy error. Used at component
// boundaries where a transport or parsing error must be re-classified.
func WrapError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed. Errors outside
// the taxonomy report an empty Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err belongs to the taxonomy with the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
