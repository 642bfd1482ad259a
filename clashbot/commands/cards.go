package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/internal/domain/cards"
)

var Cards = discord.SlashCommandCreate{
	Name:        "cards",
	Description: "🃏 Browse your card collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Filter by card name",
		},
		discord.ApplicationCommandOptionString{
			Name:        "faction",
			Description: "Filter by faction",
		},
		discord.ApplicationCommandOptionString{
			Name:        "rarity",
			Description: "Filter by rarity",
			Choices:     rarityChoices(),
		},
		discord.ApplicationCommandOptionString{
			Name:        "type",
			Description: "Filter by battle type",
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Efficiency", Value: string(cards.Efficiency)},
				{Name: "Creativity", Value: string(cards.Creativity)},
				{Name: "Function", Value: string(cards.Function)},
			},
		},
		discord.ApplicationCommandOptionBool{
			Name:        "locked",
			Description: "Only show locked cards",
		},
	},
}

var Lock = discord.SlashCommandCreate{
	Name:        "lock",
	Description: "🔒 Lock or unlock a card so it cannot be used as material",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card",
			Description: "Card ID",
			Required:    true,
		},
	},
}

func rarityChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(cards.Rarities))
	for _, r := range cards.Rarities {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  cards.RarityIcon(r) + " " + r.String(),
			Value: r.String(),
		})
	}
	return choices
}

func CardsHandler(b *clashbot.Bot) handler.CommandHandler {
	return cards.NewCommands(b.Cards, b.Paginator).Cards
}

func LockHandler(b *clashbot.Bot) handler.CommandHandler {
	return cards.NewCommands(b.Cards, b.Paginator).Lock
}
