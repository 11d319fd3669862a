package queue

import "time"

// Config holds the configuration for the delayed-task queue.
type Config struct {
	Name               string        `env:"QUEUE_NAME" envDefault:"task-reminders"`                                    // Name prefixes all queue keys.
	CallbackURL        string        `env:"QUEUE_CALLBACK_URL" envDefault:"http://localhost:8080/send-notification"`  // CallbackURL is the externally reachable dispatch endpoint.
	Timezone           string        `env:"QUEUE_TIMEZONE" envDefault:"Europe/Berlin"`                                 // Timezone is the civil reference zone for due dates.
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	ClaimBatchSize     int           `env:"QUEUE_CLAIM_BATCH_SIZE" envDefault:"32"`
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"10"`
	MaxRetries         int           `env:"QUEUE_MAX_RETRIES" envDefault:"5"`
	DeliveryTimeout    time.Duration `env:"QUEUE_DELIVERY_TIMEOUT" envDefault:"30s"`
}
