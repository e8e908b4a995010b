package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, "json")

	l.Info("provider failed", "provider", "newsapi")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "provider failed", rec["msg"])
	assert.Equal(t, "newsapi", rec["provider"])
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, "").Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true, "").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure(t *testing.T) {
	prevLogger, prevDefault := Logger, slog.Default()
	t.Cleanup(func() {
		Logger = prevLogger
		slog.SetDefault(prevDefault)
	})

	var buf bytes.Buffer
	Configure(&buf, true, "json")

	Debug("fetching", "provider", "gnews")
	Info("served", "articles", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "gnews", rec["provider"])
	assert.Same(t, Logger, OrDefault(nil))

	buf.Reset()
	Configure(&buf, false, "text")
	Debug("hidden")
	slog.Info("via slog default")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"via slog default\"")
}

func TestOrDefault(t *testing.T) {
	l := Discard()
	assert.Same(t, l, OrDefault(l))
	assert.NotNil(t, OrDefault(nil))
}
