package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// newBufferLogger returns a debug-level logger writing JSON entries into a
// buffer for assertion.
func newBufferLogger() (Logger, *zaptest.Buffer) {
	buf := &zaptest.Buffer{}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyConfigUsesDefaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"scheme://nope"}})
	assert.Error(t, err)
}

func TestZapLogger_LevelsWriteEntries(t *testing.T) {
	l, buf := newBufferLogger()

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, `"level":"error"`)
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newBufferLogger()

	l.With(String("foo", "bar")).Info("msg")

	assert.Contains(t, buf.String(), `"foo":"bar"`)
}

func TestZapLogger_Named_PrefixesLoggerName(t *testing.T) {
	buf := &zaptest.Buffer{}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.NameKey = "logger"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), buf, zapcore.DebugLevel)
	l := Logger(&zapLogger{z: zap.New(core)})

	l.Named("registry").Named("repo").Info("msg")

	assert.Contains(t, buf.String(), `"logger":"registry.repo"`)
}

func TestZapLogger_TypedFieldConversion(t *testing.T) {
	l, buf := newBufferLogger()

	l.Info("msg",
		Int("count", 7),
		Int64("big", 9000000000),
		Float64("ratio", 0.5),
		Bool("ok", true),
		Duration("elapsed", 1500*time.Millisecond),
		Err(errors.New("boom")),
		Any("raw", map[string]int{"a": 1}),
	)

	out := buf.String()
	assert.Contains(t, out, `"count":7`)
	assert.Contains(t, out, `"big":9000000000`)
	assert.Contains(t, out, `"ratio":0.5`)
	assert.Contains(t, out, `"ok":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg", String("k", "v"))
		l.Warn("msg")
		l.Error("msg")
	})
}

func TestNopLogger_WithAndNamedReturnSelf(t *testing.T) {
	l := NewNopLogger()
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("sub"))
}

func TestDefault_StartsAsNop(t *testing.T) {
	assert.NotNil(t, Default())
}

func TestSetDefault_ReplacesGlobal(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newBufferLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	SetDefault(nil)
	assert.NotNil(t, Default())
}
