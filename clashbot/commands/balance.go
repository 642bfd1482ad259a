package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your current balance",
}

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "version command",
}

func BalanceHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		balance, err := b.Game.Balance(ctx, e.User().ID.String())
		if err != nil {
			return err
		}

		color := handlers.SuccessColor
		description := fmt.Sprintf("You have **%d** credits.", balance)
		if balance < 0 {
			color = handlers.WarningColor
			description = fmt.Sprintf("You owe **%d** credits in unpaid subscription days.\nSpending is blocked until the debt is paid off.", -balance)
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Balance",
				Description: description,
				Color:       color,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}

func VersionHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("Version: %s\nCommit: %s", b.Version, b.Commit),
		})
	}
}
