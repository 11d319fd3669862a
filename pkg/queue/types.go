package queue

import "time"

// DefaultQueueName is used when no queue name is configured.
const DefaultQueueName = "task-reminders"

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusRetrying TaskStatus = "retrying"
)

// Task is a pending delayed notification as the queue stores it. The
// identifier is derived deterministically from the message and delay at
// submission time, Payload holds the serialized notification request
// (base64-encoded on the wire), and Target is the callback URL invoked when
// the task fires.
type Task struct {
	ID          string            `json:"id"`
	Queue       string            `json:"queue"`
	Payload     []byte            `json:"payload,omitempty"`
	Target      string            `json:"target"`
	Headers     map[string]string `json:"headers,omitempty"`
	Status      TaskStatus        `json:"status"`
	RetryCount  int               `json:"retry_count"`
	MaxRetries  int               `json:"max_retries"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	CreatedAt   time.Time         `json:"created_at"`
}

// DeadTask is a task that exhausted delivery, kept for manual inspection.
type DeadTask struct {
	Task     Task      `json:"task"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
