package domain

import "errors"

// Sentinel errors shared by services, repositories and controllers.
// Services wrap them with context; controllers unwrap with errors.Is to pick
// the HTTP status.
var (
	// ErrNotFound means a referenced user, event, category or request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the requested transition violates the current state:
	// wrong event state, duplicate request, participant limit reached, or a
	// request that is no longer pending.
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the actor is not the event's initiator or the
	// request's owning requester.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means the input failed validation before any state change.
	ErrInvalidInput = errors.New("invalid input")
)
