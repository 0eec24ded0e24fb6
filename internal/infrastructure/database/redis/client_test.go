package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &RedisConfig{}
	applyDefaults(cfg)

	assert.Positive(t, cfg.PoolSize)
	assert.Equal(t, 5, cfg.MinIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.MaxIdleTime)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &RedisConfig{PoolSize: 3, ReadTimeout: time.Second}
	applyDefaults(cfg)

	assert.Equal(t, 3, cfg.PoolSize)
	assert.Equal(t, time.Second, cfg.ReadTimeout)
}

func TestBuildTLSConfig_Disabled(t *testing.T) {
	cfg, err := buildTLSConfig(&RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestBuildTLSConfig_Insecure(t *testing.T) {
	cfg, err := buildTLSConfig(&RedisConfig{TLSEnabled: true, TLSInsecure: true})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestBuildTLSConfig_MissingKeypair(t *testing.T) {
	_, err := buildTLSConfig(&RedisConfig{
		TLSEnabled:  true,
		TLSCertFile: "/no/such/cert.pem",
		TLSKeyFile:  "/no/such/key.pem",
	})
	assert.Error(t, err)
}

// newClosedClient builds a Client around an unreachable backend and closes it
// so command methods take the fail-fast path without dialing.
func newClosedClient(t *testing.T) *Client {
	t.Helper()
	c := &Client{
		rdb:    redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		config: &RedisConfig{},
		logger: logging.NewNopLogger(),
	}
	require.NoError(t, c.Close())
	return c
}

func TestClient_CommandsAfterClose(t *testing.T) {
	c := newClosedClient(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, c.Get(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Del(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Exists(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.TTL(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := newClosedClient(t)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNewClient_UnreachableBackend(t *testing.T) {
	_, err := NewClient(&RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  1,
	}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}
