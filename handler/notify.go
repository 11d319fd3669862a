package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"reminderd/pkg/logger"
	"reminderd/pkg/pushover"
)

func slogOutcome(o pushover.Outcome) slog.Attr {
	return slog.String("outcome", o.String())
}

// notificationTitle is the fixed title on every dispatched reminder.
const notificationTitle = "Task Reminder"

// dispatchEvent is the payload the queue delivers when a task fires: a copy
// of the original notification request, with no task identifier attached.
type dispatchEvent struct {
	Message     string `json:"message"`
	HTMLMessage string `json:"htmlMessage,omitempty"`
}

// sendNotification is the dispatch callback. The queue retries on any 5xx
// response, so this handler must tolerate repeated invocations for the same
// event; duplicate provider calls on retry are an accepted trade-off. A
// payload without a message is a permanent defect and gets a 400 the queue
// should not retry.
func (h *Handler) sendNotification(w http.ResponseWriter, r *http.Request) {
	var event dispatchEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.Message == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid task data"})
		return
	}

	notification := pushover.Notification{
		Title:   notificationTitle,
		Message: event.Message,
	}
	if event.HTMLMessage != "" {
		notification.Message = event.HTMLMessage
		notification.HTML = true
	}

	outcome, err := h.pusher.Push(r.Context(), notification)
	if err != nil {
		h.logger.Error("failed to push notification",
			slogOutcome(outcome),
			logger.Error(err))
		// Provider acceptance did not happen; a 5xx hands the event back to
		// the queue's retry policy regardless of outcome class.
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send notification"})
		return
	}

	h.logger.Info("notification sent", slogOutcome(outcome))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification sent"})
}
