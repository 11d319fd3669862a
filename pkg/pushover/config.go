package pushover

import "time"

type Config struct {
	Token          string        `env:"PUSHOVER_TOKEN_KEY,required"`                                              // Token is the application API token.
	UserKey        string        `env:"PUSHOVER_USER_KEY,required"`                                               // UserKey identifies the receiving user or group.
	Endpoint       string        `env:"PUSHOVER_ENDPOINT" envDefault:"https://api.pushover.net/1/messages.json"`
	RequestTimeout time.Duration `env:"PUSHOVER_TIMEOUT" envDefault:"10s"`
	RatePerSecond  float64       `env:"PUSHOVER_RATE_LIMIT" envDefault:"2"` // RatePerSecond caps outbound calls to stay within provider limits.
}
