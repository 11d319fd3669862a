// Package httpserver provides a lightweight wrapper around net/http that
// adds graceful shutdown, configurable server timeouts, health-check
// handlers, and structured logging via slog.
//
// Construction goes through New or NewFromConfig with Option helpers such
// as WithAddr and WithShutdownTimeout. Run blocks until the context is
// cancelled or an interrupt/TERM signal is received and then shuts the
// server down with a configurable deadline. Listen errors are wrapped with
// ErrStart and shutdown errors with ErrShutdown so callers can inspect them
// with errors.Is.
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithShutdownTimeout(10*time.Second),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		slog.Error("server stopped", "err", err)
//	}
package httpserver
