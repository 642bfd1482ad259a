package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/internal/domain/cards"
)

const (
	searchLimit       = 10
	autocompleteLimit = 25
)

var Search = discord.SlashCommandCreate{
	Name:        "search",
	Description: "🔍 Search the card catalog by name",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "query",
			Description:  "Card name",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func SearchHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		query := strings.TrimSpace(e.SlashCommandInteractionData().String("query"))
		results := b.Catalog.Search(query, searchLimit)
		if len(results) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: fmt.Sprintf("No card designs match **%s**.", query),
					Color:       handlers.InfoColor,
				}},
			})
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🔍 Catalog Search",
				Description: formatTemplates(results),
				Color:       handlers.DefaultColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("%d of %d designs", len(results), b.Catalog.Len()),
				},
			}},
		})
	}
}

func formatTemplates(templates []cards.Template) string {
	var sb strings.Builder
	for _, t := range templates {
		fmt.Fprintf(&sb, "%s **%s** • %s", cards.RarityIcon(t.Rarity), t.Name, t.Faction)
		if t.Skill != nil {
			fmt.Fprintf(&sb, " • ✨ %s", t.Skill.Name)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func focusedValue(e *handler.AutocompleteEvent) (string, string) {
	focused := e.Data.Focused()
	if focused.Value == nil {
		return focused.Name, ""
	}
	var s string
	if err := json.Unmarshal(focused.Value, &s); err != nil {
		slog.Error("Failed to unmarshal focused.Value",
			slog.String("error", err.Error()))
		return focused.Name, ""
	}
	return focused.Name, strings.TrimSpace(s)
}

// SearchAutocomplete suggests template names while typing a search.
func SearchAutocomplete(b *clashbot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		name, term := focusedValue(e)
		if name != "query" {
			return nil
		}

		results := b.Catalog.Search(term, autocompleteLimit)
		choices := make([]discord.AutocompleteChoice, 0, len(results))
		for _, t := range results {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  fmt.Sprintf("%s (%s)", t.Name, t.Rarity),
				Value: t.Name,
			})
		}
		return e.AutocompleteResult(choices)
	}
}

// FactionAutocomplete suggests catalog factions.
func FactionAutocomplete(b *clashbot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		name, term := focusedValue(e)
		if name != "faction" {
			return nil
		}
		return e.AutocompleteResult(factionChoices(b.Catalog.Factions(), term))
	}
}

func factionChoices(factions []string, term string) []discord.AutocompleteChoice {
	term = strings.ToLower(term)
	choices := make([]discord.AutocompleteChoice, 0, min(len(factions), autocompleteLimit))
	for _, f := range factions {
		if len(choices) == autocompleteLimit {
			break
		}
		if term != "" && !strings.Contains(strings.ToLower(f), term) {
			continue
		}
		choices = append(choices, discord.AutocompleteChoiceString{Name: f, Value: f})
	}
	return choices
}
