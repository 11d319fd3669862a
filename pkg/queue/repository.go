package queue

import (
	"context"
	"time"
)

// Repository defines the storage operations the delayed-task queue needs.
// Implementations must treat the task id as the uniqueness key: CreateTask
// rejects duplicates with ErrTaskExists, and GetTask/DeleteTask report
// absent ids with ErrTaskNotFound.
type Repository interface {
	// CreateTask stores a new pending task.
	CreateTask(ctx context.Context, task *Task) error

	// ListTasks returns all pending tasks in storage order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask fetches a single pending task by id.
	GetTask(ctx context.Context, id string) (*Task, error)

	// DeleteTask removes a pending task before it fires.
	DeleteTask(ctx context.Context, id string) error

	// ClaimDue atomically claims up to limit tasks whose due time has
	// passed. A claimed task is no longer pending; the dispatcher either
	// finishes it, requeues it, or moves it to the dead letter queue.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Task, error)

	// RequeueTask puts a claimed task back with a new due time.
	RequeueTask(ctx context.Context, task *Task, at time.Time) error

	// MoveToDLQ records a task that permanently failed delivery.
	MoveToDLQ(ctx context.Context, task *Task, reason string) error
}
