package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oiwatch/pkg/config"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "staging", LogLevel: "debug"}, &buf)

	log.Info("snapshot loaded")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "snapshot loaded", entry["message"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "oiwatch", entry["service"])
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug"}, &buf)

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("debug message") }, "debug message", "debug"},
		{"warn", func() { log.Warn("warn message") }, "warn message", "warn"},
		{"error", func() { log.Error("error message") }, "error message", "error"},
		{"infof", func() { log.Infof("rows: %d", 42) }, "rows: 42", "info"},
		{"warnf", func() { log.Warnf("kind: %s", "decode") }, "kind: decode", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decodeEntry(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug"}, &buf)

	log.WithComponent("snapshot").
		WithFields(map[string]interface{}{"rows": 45, "symbol": "BTCUSDT"}).
		WithError(errors.New("boom")).
		Warn("partial snapshot")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "snapshot", entry["component"])
	assert.Equal(t, float64(45), entry["rows"])
	assert.Equal(t, "BTCUSDT", entry["symbol"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNewWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oiwatch.log")
	log := New(&config.Config{Env: "test", LogLevel: "info", LogFile: path})

	log.Info("file sink")

	assert.FileExists(t, path)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().WithField("k", "v").Error("discarded") })
}
