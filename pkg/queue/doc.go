// Package queue implements the durable delayed-task queue behind the
// reminder service: a gateway for the task lifecycle and a dispatcher that
// fires due tasks at their callback target.
//
// # Architecture
//
// The Gateway is the write/read boundary callers use. On submission it
// converts the civil due date into a relative delay, derives the
// deterministic task identifier from the normalized message and that delay,
// and stores a Task whose payload is the serialized notification and whose
// target is the dispatch callback URL. List, Get and Remove are single
// round trips to storage; the gateway holds no state of its own and adds no
// retries.
//
// Storage sits behind the Repository interface. RedisStorage is the
// production implementation (task bodies as JSON strings, a sorted-set due
// index, SETNX for duplicate-name rejection); MemoryStorage serves tests
// and local development.
//
// The Dispatcher polls for due tasks, claims them atomically, and POSTs
// each payload to its stored target with the stored headers. Delivery is
// at-least-once: transient failures requeue with exponential backoff up to
// MaxRetries, permanent 4xx rejections and exhausted tasks land in the dead
// letter queue. Duplicate callback invocations on retry are an accepted
// trade-off; the callback must tolerate re-invocation.
//
// # Identifier semantics
//
// Task identifiers are a namespacing key, not a request id: identical
// normalized messages with identical computed delays name the same task and
// the second submission fails with ErrTaskExists. This de-duplicates
// identical reminders by design.
package queue
