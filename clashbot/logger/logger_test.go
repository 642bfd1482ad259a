package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))

	log.Info("Command completed",
		slog.String("type", "cmd"),
		slog.String("name", "fuse"),
		slog.String("user_name", "mika"),
		slog.String("status", "success"),
		slog.String("guild_id", "42"))

	out := buf.String()
	assert.Contains(t, out, "[CardClash]")
	assert.Contains(t, out, "[CMD]")
	assert.Contains(t, out, "Command completed [fuse by mika] [Status: success]")
	assert.Contains(t, out, "guild_id=42")
	assert.NotContains(t, out, "user_name=")
}

func TestCustomHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))

	log.Error("Scheduled generation failed",
		slog.String("type", "error"),
		slog.String("error_location", "ticker.go:10"),
		slog.Any("error", errors.New("boom")))

	assert.Contains(t, buf.String(), "[ERR] Scheduled generation failed (ticker.go:10): boom")
}

func TestCustomHandlerFiltersNoise(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Debug("sending heartbeat")
	log.Debug("Query executed", slog.String("type", "db"))

	assert.NotContains(t, buf.String(), "heartbeat")
	assert.Contains(t, buf.String(), "[DB]")
}

func TestLevelAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn)).WithGroup("game").With(slog.Int("tick", 3))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "game.tick=3")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	slog.New(New(&buf, Options{Level: slog.LevelInfo, Format: "json"})).Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)
}
