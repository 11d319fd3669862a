package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"reminderd/pkg/schedule"
)

// ScheduleRequest is the caller input for a new delayed notification. The
// due date is a civil date-time interpreted in the queue's reference zone.
type ScheduleRequest struct {
	Message     string `json:"message"`
	HTMLMessage string `json:"htmlMessage,omitempty"`
	DueDate     string `json:"dueDate"`
}

// notificationPayload is what the dispatch callback receives when the task
// fires. It intentionally carries no task identifier: dispatch is
// fire-and-forget once accepted.
type notificationPayload struct {
	Message     string `json:"message"`
	HTMLMessage string `json:"htmlMessage,omitempty"`
}

// Gateway is the boundary to the delayed-task queue. It owns identifier
// derivation and delay computation on submission and maps storage results
// onto the error kinds callers branch on. The gateway is stateless; the
// repository is the sole source of truth for pending tasks.
type Gateway struct {
	repo        Repository
	loc         *time.Location
	queue       string
	callbackURL string
	authToken   string
	maxRetries  int
	now         func() time.Time
}

// NewGateway creates a Gateway over the given repository. The auth token is
// attached to every task so the queue can authenticate to the dispatch
// callback with the same shared secret human callers use.
func NewGateway(repo Repository, cfg Config, authToken string) (*Gateway, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, cfg.Timezone)
	}

	queueName := cfg.Name
	if queueName == "" {
		queueName = DefaultQueueName
	}

	return &Gateway{
		repo:        repo,
		loc:         loc,
		queue:       queueName,
		callbackURL: cfg.CallbackURL,
		authToken:   authToken,
		maxRetries:  cfg.MaxRetries,
		now:         time.Now,
	}, nil
}

// Schedule computes the delay and deterministic identifier for the request,
// builds the queue task, and stores it. The returned task carries the
// canonical identifier and the absolute due time at seconds resolution.
//
// Validation failures surface as ErrMessageRequired, ErrDueDateRequired,
// schedule.ErrInvalidDueDate, or schedule.ErrDueDateInPast. A name
// collision surfaces as ErrTaskExists; anything else from storage is
// wrapped with ErrUpstream.
func (g *Gateway) Schedule(ctx context.Context, req ScheduleRequest) (*Task, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return nil, ErrDueDateRequired
	}

	now := g.now()
	delay, err := schedule.DelaySeconds(req.DueDate, g.loc, now)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(notificationPayload{
		Message:     req.Message,
		HTMLMessage: req.HTMLMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	task := &Task{
		ID:      schedule.TaskID(message, delay),
		Queue:   g.queue,
		Payload: payload,
		Target:  g.callbackURL,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + g.authToken,
		},
		Status:      TaskStatusPending,
		MaxRetries:  g.maxRetries,
		ScheduledAt: now.Add(time.Duration(delay) * time.Second).Truncate(time.Second),
		CreatedAt:   now,
	}

	if err := g.repo.CreateTask(ctx, task); err != nil {
		if errors.Is(err, ErrTaskExists) {
			return nil, err
		}
		return nil, errors.Join(ErrUpstream, err)
	}
	return task, nil
}

// List returns all pending tasks in provider order. Callers needing
// chronological order sort on their side. An empty queue yields an empty
// slice, never an error.
func (g *Gateway) List(ctx context.Context) ([]Task, error) {
	tasks, err := g.repo.ListTasks(ctx)
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		redactCredentials(&tasks[i])
	}
	return tasks, nil
}

// Get fetches a single pending task by id. Missing ids yield
// ErrTaskNotFound, distinct from transport failures.
func (g *Gateway) Get(ctx context.Context, id string) (*Task, error) {
	task, err := g.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrUpstream, err)
	}
	redactCredentials(task)
	return task, nil
}

// Remove deletes a pending task before it fires. Deleting an already-fired
// or already-deleted task reports ErrTaskNotFound, on first and repeated
// calls alike.
func (g *Gateway) Remove(ctx context.Context, id string) error {
	if err := g.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return err
		}
		return errors.Join(ErrUpstream, err)
	}
	return nil
}

// redactCredentials strips the bearer credential from a task before it
// leaves the gateway on a read path. The header map may be shared with the
// stored task, so it is replaced rather than mutated.
func redactCredentials(task *Task) {
	if task.Headers == nil {
		return
	}
	headers := make(map[string]string, len(task.Headers))
	for k, v := range task.Headers {
		if k == "Authorization" {
			continue
		}
		headers[k] = v
	}
	task.Headers = headers
}
