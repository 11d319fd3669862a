// Package pushover is a minimal client for the Pushover message API with
// client-side rate limiting and tagged delivery outcomes
// (accepted/retryable/permanent).
package pushover
