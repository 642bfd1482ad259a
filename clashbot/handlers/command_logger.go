package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/rules"
)

const (
	commandTimeout = 10 * time.Second
	slowCommand    = 2 * time.Second

	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	DefaultColor = 0x2B2D31
)

// WrapWithLogging logs start, duration and outcome of a command. Errors the
// handler returns are answered with an embed: rejections and empty
// collections as warnings with their reason, anything else as a generic
// failure.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.Duration("took", duration),
			}

			switch {
			case err == nil && duration > slowCommand:
				slog.Warn("Command executed slowly", append(attrs, slog.String("status", "slow"))...)
			case err == nil:
				slog.Info("Command completed", append(attrs, slog.String("status", "success"))...)
			case IsUserFacing(err):
				slog.Info("Command rejected", append(attrs,
					slog.String("status", "rejected"),
					slog.String("reason", Reason(err)))...)
				return RespondError(e, err)
			default:
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"))...)
				return RespondError(e, err)
			}
			return nil

		case <-time.After(commandTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", commandTimeout),
			)
			return fmt.Errorf("command timed out after %s", commandTimeout)
		}
	}
}

// IsUserFacing reports whether err carries a message meant for the player.
func IsUserFacing(err error) bool {
	return rules.IsRejection(err) || errors.Is(err, cards.ErrNoCards)
}

// Reason is the player-facing text for err.
func Reason(err error) string {
	if rules.IsRejection(err) {
		return rules.Reason(err)
	}
	if errors.Is(err, cards.ErrNoCards) {
		return "No cards found."
	}
	return "Something went wrong. Please try again later."
}

// RespondError answers the interaction with a warning or error embed.
func RespondError(e *handler.CommandEvent, err error) error {
	color := ErrorColor
	title := "❌ Error"
	if IsUserFacing(err) {
		color = WarningColor
		title = "⚠️ Not possible"
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: Reason(err),
			Color:       color,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
