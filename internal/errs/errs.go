// Package errs contains the error kinds shared by the store, catalog and
// service layers so the HTTP layer can map them to stable status codes.
package errs

import "errors"

// Error kinds. Compare with errors.Is.
var (
	// ErrNotFound indicates a missing account, subscription or token.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate subscription.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized covers both a wrong password and an unverified account.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyVerified is returned when registering an already active email.
	ErrAlreadyVerified = errors.New("already verified")

	// ErrInvalidRange indicates pageStart > pageEnd.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidInput indicates an empty id batch or similar caller bug.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamAuth indicates a failed catalog login or token refresh.
	ErrUpstreamAuth = errors.New("upstream auth failed")

	// ErrUpstreamRequest indicates any other failed catalog call.
	ErrUpstreamRequest = errors.New("upstream request failed")

	// ErrEmailUnreachable indicates the email address can't receive mail.
	ErrEmailUnreachable = errors.New("email unreachable")

	// ErrDuplicate is raised by stores on unique constraint violations.
	ErrDuplicate = errors.New("duplicate")
)

// Error pairs an error kind with the message shown to API callers and an
// optional internal cause that is only logged.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

// New returns an *Error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an *Error of the given kind carrying cause.
func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ", " + e.Cause.Error()
	}

	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

// Message returns the caller facing message of err, or "" if err
// doesn't carry one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}

	return ""
}
