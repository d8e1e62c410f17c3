package clients

import "errors"

// Collaborator error classes. The orchestrator's retry policy keys off these:
// ErrUnauthorized is fatal for the cycle and never retried, ErrRateLimited and
// ErrService are transient and retried inside the client boundary only.
var (
	ErrUnauthorized = errors.New("collaborator rejected credentials")
	ErrRateLimited  = errors.New("collaborator rate limit hit")
	ErrService      = errors.New("collaborator service error")
)
