package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrCancelled = errors.New("generation cancelled")
)

// Kind classifies a failure for the caller.
type Kind string

const (
	KindValidation Kind = "validation"
	KindGeneration Kind = "generation"
	KindTransport  Kind = "transport"
	KindTimeout    Kind = "timeout"
)

// Error is the typed failure carried through the generation layer. Message is
// safe to show to a user; Err keeps the diagnostic cause.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a bad caller-supplied parameter.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Generation reports that the model returned no usable payload.
func Generation(message string, cause error) error {
	return &Error{Kind: KindGeneration, Message: message, Err: cause}
}

// Transport reports a network or provider failure. Status is zero when no
// HTTP response was received.
func Transport(status int, cause error) error {
	return &Error{Kind: KindTransport, Message: "provider request failed", Status: status, Err: cause}
}

// Timeout reports that a bounded wait expired.
func Timeout(message string, cause error) error {
	return &Error{Kind: KindTimeout, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindGeneration when err carries none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindGeneration
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
