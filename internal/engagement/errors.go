package engagement

import "errors"

var (
	// ErrEdgeNotFound indicates no edge exists for the requested pair.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrEdgeExists indicates an insert collided with an existing edge.
	ErrEdgeExists = errors.New("edge already exists")
	// ErrTargetNotFound indicates the entity a toggle points at does not exist.
	ErrTargetNotFound = errors.New("toggle target not found")
	// ErrUnknownTargetKind indicates a like toggle named an unsupported entity kind.
	ErrUnknownTargetKind = errors.New("unknown like target kind")
	// ErrSelfSubscription indicates a user attempted to subscribe to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
)
