package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultCanonicalizerMode, cfg.Canonicalizer.Mode)
	assert.Equal(t, DefaultRegistryCacheTTL, cfg.Registry.CacheTTL)
	assert.Equal(t, DefaultRegistryEventSource, cfg.Registry.EventSource)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Canonicalizer.Mode = "simple"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "simple", cfg.Canonicalizer.Mode)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
