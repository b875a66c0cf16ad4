package qbittorrent

import (
	"errors"
	"fmt"
)

// errors.go defines the closed failure taxonomy every API call reports through.

// ErrorKind classifies an Error
type ErrorKind string

const (
	// KindUnsupportedMethod indicates the dispatcher cannot encode the requested method
	KindUnsupportedMethod ErrorKind = "UNSUPPORTED_METHOD"

	// KindTransport indicates a network or connection failure while sending
	KindTransport ErrorKind = "TRANSPORT_FAILURE"

	// KindBodyRead indicates a response arrived but its body could not be read
	KindBodyRead ErrorKind = "BODY_READ_FAILURE"

	// KindDeserialization indicates the body was not the expected JSON shape
	KindDeserialization ErrorKind = "DESERIALIZATION_FAILURE"

	// KindRemote indicates the response explicitly carried an error value
	KindRemote ErrorKind = "REMOTE_ERROR"

	KindMissingStatusCode      ErrorKind = "MISSING_STATUS_CODE"
	KindInvalidStatusCode      ErrorKind = "INVALID_STATUS_CODE"
	KindUnsuccessfulStatusCode ErrorKind = "UNSUCCESSFUL_STATUS_CODE"
	KindMissingResult          ErrorKind = "MISSING_RESULT"
)

// Domain labels
const (
	APIDomain             = "qBittorrent API"
	DeserializationDomain = "deserialization"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrUnsupportedMethod      = &Error{Kind: KindUnsupportedMethod}
	ErrTransport              = &Error{Kind: KindTransport}
	ErrBodyRead               = &Error{Kind: KindBodyRead}
	ErrDeserialization        = &Error{Kind: KindDeserialization}
	ErrRemote                 = &Error{Kind: KindRemote}
	ErrMissingStatusCode      = &Error{Kind: KindMissingStatusCode}
	ErrInvalidStatusCode      = &Error{Kind: KindInvalidStatusCode}
	ErrUnsuccessfulStatusCode = &Error{Kind: KindUnsuccessfulStatusCode}
	ErrMissingResult          = &Error{Kind: KindMissingResult}
)

// Error is the structured failure returned by the client
type Error struct {
	Kind ErrorKind
	// Action describes what was being attempted, e.g. "send GET /torrents/info request"
	Action string
	Domain string
	// StatusCode is the HTTP status observed, zero when no response was received
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("failed to %s: %s", e.Action, e.Message)
	if e.Domain != "" {
		msg = fmt.Sprintf("[%s] %s", e.Domain, msg)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// GetErrorKind extracts the kind from an error chain, or "" when there is none
func GetErrorKind(err error) ErrorKind {
	var qErr *Error
	if errors.As(err, &qErr) {
		return qErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, action, message string, statusCode int, err error) *Error {
	return &Error{
		Kind:       kind,
		Action:     action,
		Domain:     APIDomain,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}
