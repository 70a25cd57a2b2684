package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplierhub/internal/config"
)

func TestServer_StartAndShutdown(t *testing.T) {
	srv := New(config.ServerConfig{Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}, http.NotFoundHandler(), zap.NewNop())
	assert.Equal(t, ":0", srv.httpServer.Addr)
	assert.Equal(t, 3*time.Second, srv.httpServer.IdleTimeout)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-errc)
}
