package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/enhance"
	"github.com/cardclash/bot/internal/game"
)

var Enhance = discord.SlashCommandCreate{
	Name:        "enhance",
	Description: "⬆️ Level up a card by consuming ten copies of it",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card",
			Description: "Card ID to enhance",
			Required:    true,
		},
		discord.ApplicationCommandOptionBool{
			Name:        "preview",
			Description: "Only show cost, gains and the copies that would be used",
		},
	},
}

var Train = discord.SlashCommandCreate{
	Name:        "train",
	Description: "🏋️ Train a card to gain experience",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card",
			Description: "Card ID to train",
			Required:    true,
		},
	},
}

func EnhanceHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		targetID := strings.TrimSpace(data.String("card"))
		userID := e.User().ID.String()

		ctx, cancel := commandContext()
		defer cancel()

		if data.Bool("preview") {
			plan, err := b.Game.PlanEnhance(ctx, userID, targetID)
			if err != nil {
				return err
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{enhancePlanEmbed(plan)},
			})
		}

		out, err := b.Game.Enhance(ctx, userID, targetID)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{enhanceEmbed(out)},
		})
	}
}

func enhancePlanEmbed(plan game.EnhancePlan) discord.Embed {
	p := plan.Preview
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\nLevel **%d** ➜ **%d**\nEach stat: **+%d to +%d**\nSuccess rate: **%.0f%%**\nCost: **%d** credits (you have %d)\n",
		cards.FormatLine(plan.Target), p.Level, p.NextLevel, p.MinGain, p.MaxGain, p.SuccessRate*100, p.Cost, plan.Balance)
	fmt.Fprintf(&sb, "\nMaterials: **%d/%d** unlocked copies", len(plan.Materials), cards.EnhanceMaterials)

	color := handlers.InfoColor
	if !plan.Ready() || plan.Balance < p.Cost {
		color = handlers.WarningColor
	}
	return discord.Embed{
		Title:       "⬆️ Enhancement Preview",
		Description: sb.String(),
		Color:       color,
	}
}

func enhanceEmbed(out enhance.Outcome) discord.Embed {
	if !out.Success {
		return discord.Embed{
			Title:       "💥 Enhancement Failed",
			Description: fmt.Sprintf("%s\n\nThe materials were consumed but the card did not level up.", cards.FormatLine(out.Card)),
			Color:       handlers.WarningColor,
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("Spent %d credits • Balance: %d", out.Cost, out.Balance),
			},
		}
	}
	return discord.Embed{
		Title: "⬆️ Enhancement Complete",
		Description: fmt.Sprintf("%s\n\nGains: E +%d • C +%d • F +%d\n%s",
			cards.FormatLine(out.Card),
			out.Gains.Efficiency, out.Gains.Creativity, out.Gains.Function,
			formatStats(out.Card.Stats)),
		Color: handlers.SuccessColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Spent %d credits • Balance: %d", out.Cost, out.Balance),
		},
	}
}

func TrainHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		cardID := strings.TrimSpace(e.SlashCommandInteractionData().String("card"))

		ctx, cancel := commandContext()
		defer cancel()

		out, err := b.Game.Train(ctx, e.User().ID.String(), cardID)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{trainEmbed(out)},
		})
	}
}

func trainEmbed(out enhance.TrainingResult) discord.Embed {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n+%d experience (%d/%d)",
		cards.FormatLine(out.Card), out.ExpGained, out.Card.Experience, enhance.ExpRequired(out.Card.Level))
	for _, t := range out.StatUps {
		fmt.Fprintf(&sb, "\n✨ %s +1", t)
	}
	return discord.Embed{
		Title:       "🏋️ Training Complete",
		Description: sb.String(),
		Color:       handlers.SuccessColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Train again in %s", game.TrainCooldown),
		},
	}
}
