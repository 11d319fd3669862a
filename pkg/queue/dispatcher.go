package queue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"reminderd/pkg/logger"
)

// maxBackoff caps the retry delay between delivery attempts.
const maxBackoff = 5 * time.Minute

// Dispatcher fires due tasks by POSTing their payload to the stored
// callback target. Delivery is at-least-once: a non-2xx response or a
// transport failure requeues the task with exponential backoff until
// MaxRetries, after which it lands in the dead letter queue. Permanent
// client errors (4xx except 408/425/429) skip retries entirely.
type Dispatcher struct {
	repo     Repository
	client   *http.Client
	workerID uuid.UUID
	sem      chan struct{}
	wg       sync.WaitGroup

	pollInterval time.Duration
	claimBatch   int
	logger       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	ctx    context.Context
}

// NewDispatcher creates a dispatcher over the given repository.
func NewDispatcher(repo Repository, opts ...DispatcherOption) (*Dispatcher, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &dispatcherOptions{
		pollInterval:  time.Second,
		claimBatch:    32,
		maxConcurrent: 10,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Dispatcher{
		repo:         repo,
		client:       options.client,
		workerID:     uuid.New(),
		sem:          make(chan struct{}, options.maxConcurrent),
		pollInterval: options.pollInterval,
		claimBatch:   options.claimBatch,
		logger:       options.logger.With(logger.Component("dispatcher")),
	}, nil
}

// Start begins polling for due tasks in the background.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return fmt.Errorf("dispatcher already started")
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	go d.run()

	d.logger.Info("dispatcher started",
		slog.String("worker_id", d.workerID.String()),
		slog.Duration("poll_interval", d.pollInterval),
		slog.Int("max_concurrent", cap(d.sem)))
	return nil
}

// Stop cancels polling and waits for in-flight deliveries to settle.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.cancel == nil {
		d.mu.Unlock()
		return fmt.Errorf("dispatcher not started")
	}
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.wg.Wait()

	d.logger.Info("dispatcher stopped", slog.String("worker_id", d.workerID.String()))
	return nil
}

// Run returns a function suitable for errgroup supervision.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		if err := d.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return d.Stop()
	}
}

func (d *Dispatcher) run() {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.poll()
		}
	}
}

func (d *Dispatcher) poll() {
	tasks, err := d.repo.ClaimDue(d.ctx, time.Now(), d.claimBatch)
	if err != nil {
		if d.ctx.Err() == nil {
			d.logger.Error("failed to claim due tasks", logger.Error(err))
		}
		return
	}

	for _, task := range tasks {
		select {
		case d.sem <- struct{}{}:
		case <-d.ctx.Done():
			// Claimed but undeliverable before shutdown: push back so the
			// task is not lost.
			d.requeue(task, time.Now())
			continue
		}

		d.wg.Add(1)
		go func(task *Task) {
			defer func() {
				<-d.sem
				d.wg.Done()
			}()
			d.deliver(task)
		}(task)
	}
}

func (d *Dispatcher) deliver(task *Task) {
	start := time.Now()

	status, err := d.post(task)
	if err == nil && status >= 200 && status < 300 {
		d.logger.Info("task dispatched",
			logger.TaskID(task.ID),
			logger.Status(status),
			logger.Duration(time.Since(start)))
		return
	}

	if err == nil && isPermanentStatus(status) {
		reason := fmt.Sprintf("callback returned status %d", status)
		d.logger.Warn("task delivery permanently rejected",
			logger.TaskID(task.ID),
			logger.Status(status))
		d.moveToDLQ(task, reason)
		return
	}

	var reason string
	if err != nil {
		reason = err.Error()
	} else {
		reason = fmt.Sprintf("callback returned status %d", status)
	}

	task.RetryCount++
	if task.RetryCount > task.MaxRetries {
		d.logger.Error("task exhausted delivery retries",
			logger.TaskID(task.ID),
			logger.RetryCount(task.RetryCount-1))
		d.moveToDLQ(task, reason)
		return
	}

	backoff := retryBackoff(task.RetryCount)
	d.logger.Warn("task delivery failed, retrying",
		logger.TaskID(task.ID),
		logger.RetryCount(task.RetryCount),
		logger.Error(err),
		slog.Duration("backoff", backoff))
	d.requeue(task, time.Now().Add(backoff))
}

func (d *Dispatcher) post(task *Task) (int, error) {
	req, err := http.NewRequestWithContext(d.ctx, http.MethodPost, task.Target, bytes.NewReader(task.Payload))
	if err != nil {
		return 0, fmt.Errorf("failed to build callback request: %w", err)
	}
	for k, v := range task.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, nil
}

// requeue and moveToDLQ run on a detached context: the bookkeeping must
// complete even when the dispatcher context is already cancelled, or a
// claimed task is lost.
func (d *Dispatcher) requeue(task *Task, at time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(d.ctx), 5*time.Second)
	defer cancel()
	if err := d.repo.RequeueTask(ctx, task, at); err != nil {
		d.logger.Error("failed to requeue task", logger.TaskID(task.ID), logger.Error(err))
	}
}

func (d *Dispatcher) moveToDLQ(task *Task, reason string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(d.ctx), 5*time.Second)
	defer cancel()
	if err := d.repo.MoveToDLQ(ctx, task, reason); err != nil {
		d.logger.Error("failed to move task to dead letter queue", logger.TaskID(task.ID), logger.Error(err))
	}
}

// isPermanentStatus reports whether a callback status should never be
// retried. Most 4xx responses are payload defects that will not change;
// 408, 425 and 429 are timing or rate-limit conditions worth retrying.
func isPermanentStatus(code int) bool {
	if code < 400 || code >= 500 {
		return false
	}
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

// retryBackoff doubles per attempt: 2s, 4s, 8s, ... capped at maxBackoff.
func retryBackoff(attempt int) time.Duration {
	if attempt > 8 {
		return maxBackoff
	}
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}
