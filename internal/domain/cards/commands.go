package cards

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

type Commands interface {
	Cards(event *handler.CommandEvent) error
	Lock(event *handler.CommandEvent) error
}

type commands struct {
	svc       Service
	paginator *paginator.Manager
}

func NewCommands(svc Service, paginator *paginator.Manager) *commands {
	return &commands{
		svc:       svc,
		paginator: paginator,
	}
}

var rarityIcons = map[Rarity]string{
	Common:    "⚪",
	Rare:      "🔵",
	Epic:      "🟣",
	Legendary: "🟡",
	Unique:    "🔴",
	Commander: "👑",
}

// RarityIcon is the short marker shown next to a card of rarity r.
func RarityIcon(r Rarity) string {
	return rarityIcons[r]
}

func (c *commands) Cards(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()
	filter := Filter{
		Name:    strings.TrimSpace(data.String("name")),
		Faction: strings.TrimSpace(data.String("faction")),
		Locked:  data.Bool("locked"),
	}
	if raw, ok := data.OptString("rarity"); ok {
		r, err := ParseRarity(raw)
		if err != nil {
			return err
		}
		filter.Rarity = &r
	}
	if raw, ok := data.OptString("type"); ok {
		t, err := ParseType(raw)
		if err != nil {
			return err
		}
		filter.Type = t
	}

	cards, pages, err := c.svc.GetUserCards(context.Background(), event.User().ID.String(), filter)
	if err != nil {
		return err
	}

	return c.paginator.Create(event.Respond, paginator.Pages{
		ID:      event.ID().String(),
		Creator: event.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			startIdx := page * CardsPerPage
			endIdx := min(startIdx+CardsPerPage, len(cards))

			description := FormatList(cards[startIdx:endIdx])
			if filter.Active() {
				description = filter.Describe() + "\n\n" + description
			}

			embed.
				SetTitle("My Collection").
				SetDescription(description).
				SetColor(0x2B2D31).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, pages, len(cards)), "")
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (c *commands) Lock(event *handler.CommandEvent) error {
	id := strings.TrimSpace(event.SlashCommandInteractionData().String("card"))
	card, err := c.svc.ToggleLock(context.Background(), event.User().ID.String(), id)
	if err != nil {
		return err
	}

	state := "unlocked"
	if card.IsLocked {
		state = "locked 🔒"
	}
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: fmt.Sprintf("**%s** is now %s", card.Name, state),
			Color:       0x2B2D31,
		}},
	})
}

// FormatLine renders one card as a collection line.
func FormatLine(card *Card) string {
	lock := ""
	if card.IsLocked {
		lock = " 🔒"
	}
	return fmt.Sprintf("%s %s Lv.%d • %s %d%s `%s`",
		RarityIcon(card.Rarity),
		card.Name,
		card.Level,
		card.Type,
		card.Stats.TotalPower,
		lock,
		card.ID,
	)
}

func FormatList(cards []*Card) string {
	var description strings.Builder
	for _, card := range cards {
		description.WriteString(FormatLine(card))
		description.WriteString("\n")
	}
	return description.String()
}
