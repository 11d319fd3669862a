package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// MemoryStorage implements Repository in memory for tests and local
// development. Tasks are listed in insertion order.
type MemoryStorage struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	order []string
	dlq   []DeadTask
}

// NewMemoryStorage creates a new in-memory storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks: make(map[string]*Task),
	}
}

// CreateTask stores a new pending task, rejecting duplicate ids.
func (ms *MemoryStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("%w: %q", ErrTaskExists, task.ID)
	}

	taskCopy := *task
	ms.tasks[task.ID] = &taskCopy
	ms.order = append(ms.order, task.ID)
	return nil
}

// ListTasks returns all pending tasks in insertion order.
func (ms *MemoryStorage) ListTasks(ctx context.Context) ([]Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	tasks := make([]Task, 0, len(ms.tasks))
	for _, id := range ms.order {
		if task, ok := ms.tasks[id]; ok {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

// GetTask fetches a pending task by id.
func (ms *MemoryStorage) GetTask(ctx context.Context, id string) (*Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	task, ok := ms.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}
	taskCopy := *task
	return &taskCopy, nil
}

// DeleteTask removes a pending task by id.
func (ms *MemoryStorage) DeleteTask(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.tasks[id]; !ok {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}
	delete(ms.tasks, id)
	ms.removeFromOrder(id)
	return nil
}

// ClaimDue removes and returns up to limit tasks due at or before now.
func (ms *MemoryStorage) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var claimed []*Task
	for _, id := range ms.order {
		if len(claimed) >= limit {
			break
		}
		task, ok := ms.tasks[id]
		if !ok || task.ScheduledAt.After(now) {
			continue
		}
		taskCopy := *task
		claimed = append(claimed, &taskCopy)
	}
	for _, task := range claimed {
		delete(ms.tasks, task.ID)
		ms.removeFromOrder(task.ID)
	}
	return claimed, nil
}

// RequeueTask stores a claimed task again with a new due time.
func (ms *MemoryStorage) RequeueTask(ctx context.Context, task *Task, at time.Time) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	taskCopy := *task
	taskCopy.Status = TaskStatusRetrying
	taskCopy.ScheduledAt = at
	if _, exists := ms.tasks[task.ID]; !exists {
		ms.order = append(ms.order, task.ID)
	}
	ms.tasks[task.ID] = &taskCopy
	return nil
}

// MoveToDLQ records a permanently failed task.
func (ms *MemoryStorage) MoveToDLQ(ctx context.Context, task *Task, reason string) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.dlq = append(ms.dlq, DeadTask{Task: *task, Reason: reason, FailedAt: time.Now()})
	return nil
}

// DeadTasks returns a snapshot of the dead letter queue.
func (ms *MemoryStorage) DeadTasks() []DeadTask {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return append([]DeadTask(nil), ms.dlq...)
}

func (ms *MemoryStorage) removeFromOrder(id string) {
	for i, existing := range ms.order {
		if existing == id {
			ms.order = append(ms.order[:i], ms.order[i+1:]...)
			return
		}
	}
}
