package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_ServeAndShutdownOnCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := New(handler, Options{ShutdownTimeout: time.Second}, quietLogger())

	var order []string
	srv.OnShutdown("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	srv.OnShutdown("cache", func(context.Context) error {
		order = append(order, "cache")
		return nil
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, []string{"cache", "store"}, order)
}

func TestServer_ShutdownCollectsComponentErrors(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second}, quietLogger())

	first := errors.New("first failed")
	second := errors.New("second failed")
	var ran []string

	srv.OnShutdown("a", func(context.Context) error {
		ran = append(ran, "a")
		return first
	})
	srv.OnShutdown("b", func(context.Context) error {
		ran = append(ran, "b")
		return second
	})

	err := srv.Shutdown(context.Background())

	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, []string{"b", "a"}, ran, "a failing component must not stop the rest")
}

func TestServer_ShutdownRunsComponentsOnce(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{}, quietLogger())

	calls := 0
	srv.OnShutdown("store", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestServer_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 5000}, nil)
	assert.Equal(t, ":5000", srv.Addr())
}
