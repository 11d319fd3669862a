package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided.
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrMessageRequired is returned when a schedule request carries no message.
	ErrMessageRequired = errors.New("message is required")

	// ErrDueDateRequired is returned when a schedule request carries no due date.
	ErrDueDateRequired = errors.New("dueDate is required")

	// ErrTaskExists is returned when a task with the same deterministic name
	// is already pending. The request is well-formed but cannot be retried
	// unchanged.
	ErrTaskExists = errors.New("task with this name is already scheduled")

	// ErrTaskNotFound is returned when the referenced task is absent,
	// already fired, or already deleted.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTimezone is returned when the configured reference zone
	// cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid queue timezone")

	// ErrUpstream wraps transport or storage failures from the queue
	// backend. Safe to retry from the caller's side.
	ErrUpstream = errors.New("task queue unavailable")
)
