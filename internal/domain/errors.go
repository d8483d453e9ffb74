package domain

import "errors"

// Error taxonomy per the orchestrator's error-handling design: NotFound
// and InvalidInput never mutate state; InvalidTransition is logged and
// surfaces as an outbound error message; ExternalProviderFailure is
// recoverable and leaves the session in its current state; Persistence
// failures are treated as fatal for the session.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrInvalidInput        = errors.New("invalid input")
	ErrExternalProvider    = errors.New("external provider failure")
	ErrPersistence         = errors.New("persistence failure")
)
