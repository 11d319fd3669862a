package schedule

import "errors"

var (
	// ErrInvalidDueDate is returned when a due date string cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrDueDateInPast is returned when the due date resolves to an instant before now.
	ErrDueDateInPast = errors.New("due date must be in the future")
)
