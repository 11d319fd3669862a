// Package logger provides a small slog factory with per-environment
// defaults (text/debug for development, JSON/info elsewhere) and typed
// attribute helpers for the keys this service logs consistently.
package logger
