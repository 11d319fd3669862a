package pushover

import "errors"

var (
	// ErrMissingCredentials is returned when the client is constructed
	// without an application token or user key.
	ErrMissingCredentials = errors.New("pushover token and user key are required")

	// ErrDeliveryFailed indicates a transient transport or provider
	// failure; the same notification may succeed on retry.
	ErrDeliveryFailed = errors.New("pushover delivery failed")

	// ErrRejected indicates the provider rejected the message; retrying
	// the same notification will not help.
	ErrRejected = errors.New("pushover rejected the message")
)
