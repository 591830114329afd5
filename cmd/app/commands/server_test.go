package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	startErr    error
	shutdownErr error

	stop      chan struct{}
	stopOnce  sync.Once
	shutdowns atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (f *fakeServer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stop
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	return f.shutdownErr
}

func TestServe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("context-cancel-stops-all-servers", func(t *testing.T) {
		api, metrics := newFakeServer(), newFakeServer()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- serve(ctx, logger, time.Second, []namedServer{
				{name: "api server", server: api},
				{name: "metrics server", server: metrics},
			})
		}()
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancel")
		}
		assert.Equal(t, int32(1), api.shutdowns.Load())
		assert.Equal(t, int32(1), metrics.shutdowns.Load())
	})

	t.Run("start-failure-shuts-down-the-rest", func(t *testing.T) {
		api, metrics := newFakeServer(), newFakeServer()
		api.startErr = errors.New("address already in use")

		err := serve(context.Background(), logger, time.Second, []namedServer{
			{name: "api server", server: api},
			{name: "metrics server", server: metrics},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api server error")
		assert.Equal(t, int32(1), metrics.shutdowns.Load())
	})

	t.Run("shutdown-error-is-returned", func(t *testing.T) {
		api := newFakeServer()
		api.shutdownErr = errors.New("deadline exceeded")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := serve(ctx, logger, time.Second, []namedServer{{name: "api server", server: api}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api server shutdown")
	})
}
