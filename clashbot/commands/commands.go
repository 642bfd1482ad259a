package commands

import (
	"context"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/cardclash/bot/internal/domain/subscription"
)

const commandTimeout = 5 * time.Second

var Commands = []discord.ApplicationCommandCreate{
	Cards,
	Lock,
	Search,
	Fuse,
	Enhance,
	Train,
	Battle,
	Subscribe,
	Unsubscribe,
	Tier,
	Slots,
	Slot,
	Balance,
	Version,
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// parseIDs splits a list of card IDs separated by spaces or commas.
func parseIDs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.Trim(f, "`"); f != "" {
			ids = append(ids, f)
		}
	}
	return ids
}

var tierChoices = func() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(subscription.Tiers))
	for _, t := range subscription.Tiers {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  strings.ToUpper(string(t[:1])) + string(t[1:]),
			Value: string(t),
		})
	}
	return choices
}()

var factionOption = discord.ApplicationCommandOptionString{
	Name:         "faction",
	Description:  "Faction to subscribe to",
	Required:     true,
	Autocomplete: true,
}
