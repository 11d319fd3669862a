package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"reminderd/pkg/queue"
	"reminderd/pkg/schedule"
)

// httpError pairs an HTTP status with the message the caller sees.
type httpError struct {
	Code    int
	Message string
}

func (e httpError) Error() string {
	return e.Message
}

// statusFor maps domain errors onto the HTTP surface: validation failures
// are 400, absent tasks 404, everything else (upstream failures and
// scheduling conflicts included) 500. Wrapped details never reach the
// response body beyond the sentinel's own message.
func statusFor(err error) httpError {
	switch {
	case errors.Is(err, queue.ErrMessageRequired), errors.Is(err, queue.ErrDueDateRequired):
		return httpError{http.StatusBadRequest, "message and dueDate are required"}
	case errors.Is(err, schedule.ErrDueDateInPast):
		return httpError{http.StatusBadRequest, "Due date must be in the future"}
	case errors.Is(err, schedule.ErrInvalidDueDate):
		return httpError{http.StatusBadRequest, "dueDate must be an ISO-8601 date-time"}
	case errors.Is(err, queue.ErrTaskNotFound):
		return httpError{http.StatusNotFound, "Task not found"}
	case errors.Is(err, queue.ErrTaskExists):
		return httpError{http.StatusInternalServerError, "Failed to create task: a task with this name is already scheduled"}
	default:
		return httpError{http.StatusInternalServerError, "Internal Server Error"}
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	he := statusFor(err)
	respondJSON(w, he.Code, map[string]string{"error": he.Message})
}
