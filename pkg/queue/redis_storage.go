package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// dlqMaxLen caps the dead letter list so a misbehaving endpoint cannot grow
// it without bound.
const dlqMaxLen = 1000

// RedisStorage implements Repository on Redis. Task bodies live as JSON
// strings under "<queue>:task:<id>" and due times are indexed in the sorted
// set "<queue>:due" scored by unix seconds. SETNX on the task key gives the
// duplicate-name rejection the deterministic identifier relies on.
type RedisStorage struct {
	client     redis.UniversalClient
	taskPrefix string
	dueKey     string
	dlqKey     string
}

// NewRedisStorage creates a Redis-backed task store for the named queue.
func NewRedisStorage(client redis.UniversalClient, queueName string) *RedisStorage {
	if queueName == "" {
		queueName = DefaultQueueName
	}
	return &RedisStorage{
		client:     client,
		taskPrefix: queueName + ":task:",
		dueKey:     queueName + ":due",
		dlqKey:     queueName + ":dlq",
	}
}

func (s *RedisStorage) taskKey(id string) string {
	return s.taskPrefix + id
}

// CreateTask stores the task and indexes its due time. Returns ErrTaskExists
// when a task with the same id is already pending.
func (s *RedisStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task %q: %w", task.ID, err)
	}

	ok, err := s.client.SetNX(ctx, s.taskKey(task.ID), data, 0).Result()
	if err != nil {
		return errors.Join(ErrUpstream, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrTaskExists, task.ID)
	}

	score := float64(task.ScheduledAt.Unix())
	if err := s.client.ZAdd(ctx, s.dueKey, redis.Z{Score: score, Member: task.ID}).Err(); err != nil {
		// Roll back the body so the id does not stay claimed by a task that
		// will never fire.
		_ = s.client.Del(context.WithoutCancel(ctx), s.taskKey(task.ID)).Err()
		return errors.Join(ErrUpstream, err)
	}

	return nil
}

// ListTasks returns all pending tasks in due-index order.
func (s *RedisStorage) ListTasks(ctx context.Context) ([]Task, error) {
	ids, err := s.client.ZRange(ctx, s.dueKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}
	if len(ids) == 0 {
		return []Task{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.taskKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}

	tasks := make([]Task, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a body: the task was claimed or deleted
			// between the two reads.
			continue
		}
		var task Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetTask fetches a pending task by id.
func (s *RedisStorage) GetTask(ctx context.Context, id string) (*Task, error) {
	data, err := s.client.Get(ctx, s.taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %q: %w", id, err)
	}
	return &task, nil
}

// DeleteTask removes a pending task. Absent ids, fired tasks included,
// report ErrTaskNotFound on every call.
func (s *RedisStorage) DeleteTask(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, s.taskKey(id)).Result()
	if err != nil {
		return errors.Join(ErrUpstream, err)
	}
	if err := s.client.ZRem(ctx, s.dueKey, id).Err(); err != nil {
		return errors.Join(ErrUpstream, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}
	return nil
}

// ClaimDue claims up to limit tasks due at or before now. Winning the ZREM
// on the due index is the claim; concurrent dispatchers cannot claim the
// same task twice.
func (s *RedisStorage) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Task, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.dueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}

	claimed := make([]*Task, 0, len(ids))
	for _, id := range ids {
		won, err := s.client.ZRem(ctx, s.dueKey, id).Result()
		if err != nil {
			return claimed, errors.Join(ErrUpstream, err)
		}
		if won == 0 {
			continue
		}

		data, err := s.client.GetDel(ctx, s.taskKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return claimed, errors.Join(ErrUpstream, err)
		}

		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			continue
		}
		claimed = append(claimed, &task)
	}
	return claimed, nil
}

// RequeueTask stores a claimed task again with a new due time.
func (s *RedisStorage) RequeueTask(ctx context.Context, task *Task, at time.Time) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	task.Status = TaskStatusRetrying
	task.ScheduledAt = at

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task %q: %w", task.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.taskKey(task.ID), data, 0)
	pipe.ZAdd(ctx, s.dueKey, redis.Z{Score: float64(at.Unix()), Member: task.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrUpstream, err)
	}
	return nil
}

// MoveToDLQ appends the task to the dead letter list, trimmed to dlqMaxLen.
func (s *RedisStorage) MoveToDLQ(ctx context.Context, task *Task, reason string) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	data, err := json.Marshal(DeadTask{Task: *task, Reason: reason, FailedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal dead task %q: %w", task.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.dlqKey, data)
	pipe.LTrim(ctx, s.dlqKey, 0, dlqMaxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrUpstream, err)
	}
	return nil
}
