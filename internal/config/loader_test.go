package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8080
  mode: "debug"
database:
  host: "localhost"
  port: 5432
  user: "molcanon"
  password: "secret"
  db_name: "molcanon"
redis:
  addr: "localhost:6379"
kafka:
  brokers: ["localhost:9092"]
  group_id: "molcanon-group"
canonicalizer:
  mode: "enantiotopic"
log:
  level: "info"
  format: "json"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "molcanon", cfg.Database.User)
	assert.Equal(t, "enantiotopic", cfg.Canonicalizer.Mode)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("non_existent_config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	bad := validConfigYAML + "\nworker:\n  concurrency: -1\n"
	path := createTempConfigFile(t, bad)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	minimal := `
database:
  user: "molcanon"
  password: "secret"
`
	path := createTempConfigFile(t, minimal)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultCanonicalizerMode, cfg.Canonicalizer.Mode)
	assert.Equal(t, DefaultRegistryCacheTTL, cfg.Registry.CacheTTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("MOLCANON_SERVER_PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_EnvOverride_NestedKey(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("MOLCANON_DATABASE_HOST", "db-host")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db-host", cfg.Database.Host)
}

func TestLoadFromEnv_MissingRequiredFields(t *testing.T) {
	// Without a config file and without the required env vars the result
	// cannot pass validation.
	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestMustLoad_Success(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	assert.NotPanics(t, func() {
		cfg := MustLoad(path)
		assert.NotNil(t, cfg)
	})
}

func TestMustLoad_Panic(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("non_existent.yaml")
	})
}

func TestWatch_InvokesCallbackOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 1)
	Watch(path, func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	// Give the watcher a moment to start before rewriting the file.
	time.Sleep(100 * time.Millisecond)

	updated := []byte(validConfigYAML + "\nworker:\n  concurrency: 42\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, 42, cfg.Worker.Concurrency)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}
