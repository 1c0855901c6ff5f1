// Package errors defines the error taxonomy used throughout the PSN API wrapper.
//
// Every failure surfaced by the library is an *Error carrying a Kind. Callers
// branch on the kind with KindOf or errors.As rather than string matching:
//
//	_, err := user.Profile(ctx)
//	if psnerrors.KindOf(err) == psnerrors.KindForbidden {
//		// profile is private
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the wrapper's failure categories.
type Kind int

const (
	// KindUnknown is the zero value; it is never produced by the library.
	KindUnknown Kind = iota

	// KindInvalidArgument indicates malformed caller input, such as a
	// wrong-length NPSSO token or an empty search query.
	KindInvalidArgument

	// KindAuthenticationRejected indicates the authorization handshake
	// failed, usually because the NPSSO token is expired or incorrect.
	KindAuthenticationRejected

	// HTTP-status-derived kinds. See FromStatusCode for the exact mapping.
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindNotAllowed
	KindTooManyRequests
	KindClientError
	KindServerError

	// KindResourceNotFound is a semantic 404: the request itself was well
	// formed but the named entity (user, group, title) does not exist.
	KindResourceNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindInvalidArgument:        "invalid argument",
	KindAuthenticationRejected: "authentication rejected",
	KindBadRequest:             "bad request",
	KindUnauthorized:           "unauthorized",
	KindForbidden:              "forbidden",
	KindNotFound:               "not found",
	KindNotAllowed:             "method not allowed",
	KindTooManyRequests:        "too many requests",
	KindClientError:            "client error",
	KindServerError:            "server error",
	KindResourceNotFound:       "resource not found",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the concrete error type produced by the wrapper.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// StatusCode is the upstream HTTP status, if the error was derived
	// from a response. Zero otherwise.
	StatusCode int
	// Message is a human-readable description, usually extracted from the
	// response body or supplied at the call site.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := "psn: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports errors.Is and errors.As chains down to the cause.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind with an underlying cause.
// Accessors use it to re-raise a raw gateway error with more context while
// preserving the original for errors.As.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidArgument reports malformed caller input.
func InvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// AuthenticationRejected reports a failed authorization handshake.
func AuthenticationRejected(message string) *Error {
	return &Error{Kind: KindAuthenticationRejected, Message: message}
}

// ResourceNotFound reports a missing entity, preserving the raw error.
func ResourceNotFound(message string, err error) *Error {
	return &Error{Kind: KindResourceNotFound, Message: message, Err: err}
}

// FromStatusCode translates a non-2xx HTTP status into an *Error, with the
// response body as the message. Statuses outside the table return nil.
//
//	400 → KindBadRequest     401 → KindUnauthorized
//	403 → KindForbidden      404 → KindNotFound
//	405 → KindNotAllowed     429 → KindTooManyRequests
//	other 4xx → KindClientError
//	>= 500 → KindServerError
func FromStatusCode(statusCode int, body string) *Error {
	var kind Kind
	switch {
	case statusCode == http.StatusBadRequest:
		kind = KindBadRequest
	case statusCode == http.StatusUnauthorized:
		kind = KindUnauthorized
	case statusCode == http.StatusForbidden:
		kind = KindForbidden
	case statusCode == http.StatusNotFound:
		kind = KindNotFound
	case statusCode == http.StatusMethodNotAllowed:
		kind = KindNotAllowed
	case statusCode == http.StatusTooManyRequests:
		kind = KindTooManyRequests
	case statusCode >= 400 && statusCode < 500:
		kind = KindClientError
	case statusCode >= 500:
		kind = KindServerError
	default:
		return nil
	}
	return &Error{Kind: kind, StatusCode: statusCode, Message: body}
}

// KindOf reports the kind of the outermost *Error in err's chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HasKind reports whether any *Error in err's chain has the given kind.
// A re-wrapped error therefore still matches its original HTTP-derived kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
