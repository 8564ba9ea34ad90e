package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-gallery/internal/core/config"
)

func TestBuildLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "info", JSON: true, Out: zapcore.AddSync(&buf)})
	defer cleanup()

	l.Debug("hidden")
	l.Info("hello", zap.String("k", "v"))
	require.NoError(t, l.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "v", line["k"])
	assert.Contains(t, line, "ts")
}

func TestBuildLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "nope", JSON: true, Out: zapcore.AddSync(&buf)})
	defer cleanup()

	l.Debug("debug line")
	l.Info("info line")
	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "debug", JSON: true, Out: zapcore.AddSync(&buf)})
	defer cleanup()

	w := ToWriter(l, zapcore.WarnLevel)
	n, err := w.Write([]byte("slow sql\n"))
	require.NoError(t, err)
	assert.Equal(t, len("slow sql\n"), n)
	assert.Contains(t, buf.String(), `"msg":"slow sql"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestFromConfig_WritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{Level: "info", JSON: true, File: file, MaxSizeMB: 1})
	l.Info("to file")
	cleanup()

	assert.FileExists(t, file)
}
