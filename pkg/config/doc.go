// Package config loads typed configuration structs from environment
// variables (and an optional .env file) using struct tags.
//
// Each configuration type is parsed once per process and cached, so the
// same struct type loaded from different packages always carries the same
// values. Configuration structs declare their surface with `env` and
// `envDefault` tags:
//
//	type Config struct {
//		Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
//		APIKey  string        `env:"API_KEY,required"`
//	}
package config
