package clashbot

import (
	"context"
	"log/slog"

	"github.com/cardclash/bot/internal/domain/events"
)

// LogEvents writes every game event to the default logger.
func LogEvents(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, e events.Event) error {
		slog.InfoContext(ctx, "Game event", eventAttrs(e)...)
		return nil
	})
}

func eventAttrs(e events.Event) []any {
	attrs := []any{
		slog.String("type", "event"),
		slog.String("kind", string(e.Kind())),
	}
	switch ev := e.(type) {
	case events.CardGenerated:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.String("faction", ev.FactionID),
			slog.String("card_id", ev.Card.ID),
			slog.String("rarity", ev.Card.Rarity.String()))
	case events.CardsFused:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.Int("consumed", len(ev.Consumed)),
			slog.String("card_id", ev.Result.ID),
			slog.Int64("cost", ev.Cost))
	case events.CardEnhanced:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.String("card_id", ev.Card.ID),
			slog.Bool("success", ev.Success),
			slog.Int64("cost", ev.Cost))
	case events.CardTrained:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.String("card_id", ev.Card.ID),
			slog.Int("stat_ups", ev.StatUps))
	case events.MatchFinished:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.String("winner", string(ev.Winner)),
			slog.Int("player_wins", ev.PlayerWins),
			slog.Int("enemy_wins", ev.EnemyWins))
	case events.SubscriptionBilled:
		attrs = append(attrs,
			slog.String("user_id", ev.UserID),
			slog.String("faction", ev.FactionID),
			slog.Int("days", ev.Days),
			slog.Int64("charged", ev.Charged))
	}
	return attrs
}
