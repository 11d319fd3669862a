// Package handler wires the HTTP surface of the reminder service: task
// lifecycle routes, the dispatch callback, and the health endpoint.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reminderd/pkg/auth"
	"reminderd/pkg/httpserver"
	"reminderd/pkg/pushover"
	"reminderd/pkg/queue"
)

// TaskScheduler is the queue gateway surface the handlers consume.
type TaskScheduler interface {
	Schedule(ctx context.Context, req queue.ScheduleRequest) (*queue.Task, error)
	List(ctx context.Context) ([]queue.Task, error)
	Get(ctx context.Context, id string) (*queue.Task, error)
	Remove(ctx context.Context, id string) error
}

// Pusher is the notification provider surface the dispatch callback
// consumes.
type Pusher interface {
	Push(ctx context.Context, n pushover.Notification) (pushover.Outcome, error)
}

// Handler carries the dependencies shared by all routes.
type Handler struct {
	scheduler TaskScheduler
	pusher    Pusher
	logger    *slog.Logger
}

// New creates a Handler. A nil logger falls back to slog.Default.
func New(scheduler TaskScheduler, pusher Pusher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		scheduler: scheduler,
		pusher:    pusher,
		logger:    log,
	}
}

// Routes builds the service router. Every route except the health endpoint
// sits behind the bearer-token access gate; readiness probes run the given
// dependency checks.
func (h *Handler) Routes(apiKey string, readiness ...func(context.Context) error) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(context.Background(), h.logger, readiness...))

	r.Group(func(r chi.Router) {
		r.Use(auth.Bearer(apiKey))

		r.Post("/schedule", h.scheduleTask)
		r.Post("/send-notification", h.sendNotification)
		r.Get("/tasks", h.listTasks)
		r.Get("/tasks/{id}", h.getTask)
		r.Delete("/tasks/{id}", h.deleteTask)
	})

	return r
}
