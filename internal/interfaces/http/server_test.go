package http

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/internal/config"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
)

func freePortConfig() config.ServerConfig {
	// Port 0 lets the kernel pick a free port, but net/http.Server does not
	// expose the chosen port, so tests use a fixed high port instead.
	return config.ServerConfig{
		Port:            18943,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 8080}, nethttp.NotFoundHandler(), nil)

	assert.Equal(t, ":8080", s.Addr())
	assert.Equal(t, 15*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, 10*time.Second, s.shutdownTimeout)
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := freePortConfig()
	handler := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	})
	s := NewServer(cfg, handler, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Wait for the listener to come up.
	url := fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port)
	require.Eventually(t, func() bool {
		resp, err := nethttp.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == nethttp.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err, "clean shutdown should not surface ErrServerClosed")
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestServer_MaxBodySizeEnforced(t *testing.T) {
	cfg := freePortConfig()
	cfg.Port = 18944
	cfg.MaxBodySize = 16

	handler := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(nethttp.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(nethttp.StatusOK)
	})
	s := NewServer(cfg, handler, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	defer func() {
		require.NoError(t, s.Shutdown(context.Background()))
		<-done
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port)
	require.Eventually(t, func() bool {
		resp, err := nethttp.Post(url, "text/plain", strings.NewReader("ok"))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == nethttp.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	big := strings.Repeat("x", 1024)
	resp, err := nethttp.Post(url, "text/plain", strings.NewReader(big))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusRequestEntityTooLarge, resp.StatusCode)
}
