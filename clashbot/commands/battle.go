package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/internal/domain/battle"
	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/game"
)

var Battle = discord.SlashCommandCreate{
	Name:        "battle",
	Description: "⚔️ Battle an AI deck in a best of five match",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "deck",
			Description: "Five card IDs separated by spaces, in play order",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "hidden",
			Description: "Deck slot (3-5) to play face down in round 2. Round 4 always uses slot 5",
		},
	},
}

func BattleHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		ids := parseIDs(data.String("deck"))
		var hidden []int
		if slot, ok := data.OptInt("hidden"); ok {
			hidden = append(hidden, slot-1)
		}

		ctx, cancel := commandContext()
		defer cancel()

		report, err := b.Game.Battle(ctx, e.User().ID.String(), ids, hidden...)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{battleEmbed(report)},
		})
	}
}

func battleEmbed(report game.BattleReport) discord.Embed {
	m := report.Match
	title := "⚔️ Defeat"
	color := handlers.ErrorColor
	if report.Won() {
		title = "⚔️ Victory"
		color = handlers.SuccessColor
	}

	footer := fmt.Sprintf("Balance: %d", report.Balance)
	if report.Reward > 0 {
		footer = fmt.Sprintf("+%d credits • %s", report.Reward, footer)
	}

	return discord.Embed{
		Title:       fmt.Sprintf("%s %d-%d", title, m.PlayerWins, m.EnemyWins),
		Description: formatRounds(m),
		Color:       color,
		Footer:      &discord.EmbedFooter{Text: footer},
	}
}

func formatRounds(m *battle.Match) string {
	var sb strings.Builder
	for _, r := range m.History {
		mark := "❌"
		if r.Winner == duel.Player {
			mark = "✅"
		}
		p, en := m.PlayerDeck[r.Number-1], m.EnemyDeck[r.Number-1]
		fmt.Fprintf(&sb, "%s **Round %d**: %s (%.0f) vs %s (%.0f)\n",
			mark, r.Number, p.Name, r.Main.PlayerPower, en.Name, r.Main.EnemyPower)
		if r.HiddenDuel != nil {
			fmt.Fprintf(&sb, "　🂠 hidden: %s (%.0f) vs %s (%.0f)\n",
				m.PlayerDeck[r.PlayerHiddenIndex].Name, r.HiddenDuel.PlayerPower,
				m.EnemyDeck[r.EnemyHiddenIndex].Name, r.HiddenDuel.EnemyPower)
		}
	}
	return sb.String()
}
