package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/fusion"
)

var Fuse = discord.SlashCommandCreate{
	Name:        "fuse",
	Description: "⚗️ Fuse three level 1 cards of one rarity into a card of the next rarity",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "cards",
			Description: "Three card IDs separated by spaces",
			Required:    true,
		},
		discord.ApplicationCommandOptionBool{
			Name:        "preview",
			Description: "Only show what the fusion would produce",
		},
	},
}

func FuseHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		ids := parseIDs(data.String("cards"))
		userID := e.User().ID.String()

		ctx, cancel := commandContext()
		defer cancel()

		if data.Bool("preview") {
			p, err := b.Game.PreviewFusion(ctx, userID, ids)
			if err != nil {
				return err
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{previewFusionEmbed(p)},
			})
		}

		out, err := b.Game.Fuse(ctx, userID, ids)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{fuseEmbed(out)},
		})
	}
}

func previewFusionEmbed(p fusion.Preview) discord.Embed {
	return discord.Embed{
		Title: "⚗️ Fusion Preview",
		Description: fmt.Sprintf("%s %s ➜ %s %s\nEach stat: **%d-%d**\nTotal power: **%d-%d**\nCost: **%d** credits",
			cards.RarityIcon(p.From), p.From,
			cards.RarityIcon(p.To), p.To,
			p.Stat.Min, p.Stat.Max,
			p.Power.Min, p.Power.Max,
			p.Cost),
		Color: handlers.InfoColor,
	}
}

func fuseEmbed(out fusion.Outcome) discord.Embed {
	return discord.Embed{
		Title:       "⚗️ Fusion Complete",
		Description: fmt.Sprintf("%s\n\n%s", cards.FormatLine(out.Card), formatStats(out.Card.Stats)),
		Color:       handlers.SuccessColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Spent %d credits • Balance: %d", out.Cost, out.Balance),
		},
	}
}

func formatStats(s cards.Stats) string {
	return fmt.Sprintf("```\nEfficiency %4d\nCreativity %4d\nFunction   %4d\nTotal      %4d\n```",
		s.Efficiency, s.Creativity, s.Function, s.TotalPower)
}
