package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrMalformedRepresentation is returned when a stored command dictionary lacks a required field
	// or carries a field of the wrong type.
	ErrMalformedRepresentation = zerr.New("malformed command representation")

	// ErrEncodingFailure is returned when a value cannot be represented in the stored form.
	ErrEncodingFailure = zerr.New("value cannot be encoded")

	// ErrResolutionFailure is returned when a placeholder embedded in the parameters cannot be resolved.
	ErrResolutionFailure = zerr.New("local id resolution failed")

	// ErrConsistencyViolation is returned when a command is internally inconsistent and must never be sent,
	// for example a delete of an object that was never created.
	ErrConsistencyViolation = zerr.New("consistency violation")

	// ErrLocalIDNotFound is returned when the local id store has no object id for a local id.
	ErrLocalIDNotFound = zerr.New("no object id for local id")

	// ErrInvalidMethod is returned when an HTTP method is not one of GET, POST, PUT or DELETE.
	ErrInvalidMethod = zerr.New("invalid http method")

	// ErrUnknownStoreBackend is returned when the configuration names a store backend that does not exist.
	ErrUnknownStoreBackend = zerr.New("unknown store backend")

	// ErrCommandFailed is returned when one or more commands of a queue could not be resolved.
	ErrCommandFailed = zerr.New("command failed")
)

// IsFatal reports whether err marks a command that must never be sent, now or on a later attempt.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConsistencyViolation)
}
