package clashbot

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/events"
)

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	bus := events.NewBus()
	LogEvents(bus)

	err := bus.Publish(context.Background(), events.MatchFinished{
		UserID: "u1", Winner: duel.Player, PlayerWins: 3, EnemyWins: 1,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "kind=match_finished")
	assert.Contains(t, out, "user_id=u1")
	assert.Contains(t, out, "winner=player")
	assert.Contains(t, out, "player_wins=3")
}
