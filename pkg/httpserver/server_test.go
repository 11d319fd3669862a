package httpserver_test

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reminderd/pkg/httpserver"
)

func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "unable to get free port")
	addr := l.Addr().String()
	require.NoError(t, l.Close(), "close listener")
	return addr
}

func waitForServer(t *testing.T, addr string) {
	t.Helper()
	var err error
	for range 50 {
		var resp *http.Response
		resp, err = http.Get("http://" + addr)
		if err == nil {
			require.NoError(t, resp.Body.Close(), "close body")
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, err, "server did not start listening")
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	srv := httpserver.New(httpserver.WithAddr(addr), httpserver.WithShutdownTimeout(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	}()

	waitForServer(t, addr)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(time.Second):
		require.Fail(t, "run did not finish")
	}
	require.NoError(t, srv.Shutdown(context.Background()), "shutdown")
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	srv := httpserver.New(httpserver.WithAddr(addr), httpserver.WithShutdownTimeout(100*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(context.Background(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	}()

	waitForServer(t, addr)
	require.NoError(t, srv.Shutdown(context.Background()), "shutdown")
	select {
	case err := <-done:
		require.NoError(t, err, "run after shutdown")
	case <-time.After(time.Second):
		require.Fail(t, "run did not return after shutdown")
	}
}

func TestRunTwiceFails(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	srv := httpserver.New(httpserver.WithAddr(addr))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	waitForServer(t, addr)

	err := srv.Run(ctx, nil)
	require.ErrorIs(t, err, httpserver.ErrStart)

	cancel()
	<-done
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := newRecorder()
		httpserver.HealthCheckHandler(context.Background(), discardLogger())(rec, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness ok", func(t *testing.T) {
		t.Parallel()
		rec := newRecorder()
		ok := func(context.Context) error { return nil }
		httpserver.HealthCheckHandler(context.Background(), discardLogger(), ok)(rec, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "READY", rec.Body.String())
	})

	t.Run("readiness failed", func(t *testing.T) {
		t.Parallel()
		rec := newRecorder()
		failing := func(context.Context) error { return context.DeadlineExceeded }
		httpserver.HealthCheckHandler(context.Background(), discardLogger(), failing)(rec, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "NOT_READY", rec.Body.String())
	})
}
