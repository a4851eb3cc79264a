package domain

import "errors"

// Failure taxonomy for lifecycle operations. Controller errors wrap
// exactly one of the first four so callers can classify with errors.Is.
var (
	ErrServiceUnavailable   = errors.New("account service unavailable")
	ErrInvalidReply         = errors.New("invalid account service reply")
	ErrPreconditionViolated = errors.New("precondition violated")
	ErrStorageFailure       = errors.New("storage failure")
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrOptionsNotFound    = errors.New("persistent options not found")
	ErrSessionAlreadyOpen = errors.New("a session is already open")
)
