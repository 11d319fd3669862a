package queue

import (
	"log/slog"
	"net/http"
	"time"
)

type dispatcherOptions struct {
	pollInterval  time.Duration
	claimBatch    int
	maxConcurrent int
	client        *http.Client
	logger        *slog.Logger
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*dispatcherOptions)

// WithPollInterval sets how often the dispatcher checks for due tasks.
func WithPollInterval(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithClaimBatchSize sets how many due tasks one poll may claim.
func WithClaimBatchSize(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n > 0 {
			o.claimBatch = n
		}
	}
}

// WithMaxConcurrent sets the number of parallel deliveries.
func WithMaxConcurrent(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// WithHTTPClient sets the HTTP client used for callback deliveries.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(o *dispatcherOptions) {
		if c != nil {
			o.client = c
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
