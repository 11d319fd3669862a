package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reminderd/pkg/logger"
	"reminderd/pkg/queue"
)

// scheduleResponse is the success body for POST /schedule.
type scheduleResponse struct {
	Message       string `json:"message"`
	TaskName      string `json:"taskName"`
	ScheduledTime string `json:"scheduledTime"`
}

func (h *Handler) scheduleTask(w http.ResponseWriter, r *http.Request) {
	var req queue.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	task, err := h.scheduler.Schedule(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to schedule task", logger.Error(err))
		respondError(w, err)
		return
	}

	h.logger.Info("task scheduled",
		logger.TaskID(task.ID),
		logger.Duration(time.Until(task.ScheduledAt)))

	respondJSON(w, http.StatusOK, scheduleResponse{
		Message:       "Task scheduled successfully",
		TaskName:      task.ID,
		ScheduledTime: task.ScheduledAt.Format(time.RFC3339),
	})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.scheduler.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tasks", logger.Error(err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.scheduler.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get task", logger.TaskID(id), logger.Error(err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.scheduler.Remove(r.Context(), id); err != nil {
		h.logger.Error("failed to delete task", logger.TaskID(id), logger.Error(err))
		respondError(w, err)
		return
	}

	h.logger.Info("task deleted", logger.TaskID(id))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Task " + id + " deleted"})
}
