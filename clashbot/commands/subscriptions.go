package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/internal/domain/rules"
	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/game"
)

var tierOption = discord.ApplicationCommandOptionString{
	Name:        "tier",
	Description: "Subscription tier",
	Required:    true,
	Choices:     tierChoices,
}

var Subscribe = discord.SlashCommandCreate{
	Name:        "subscribe",
	Description: "📬 Subscribe to a faction and receive its cards over time",
	Options:     []discord.ApplicationCommandOption{factionOption, tierOption},
}

var Unsubscribe = discord.SlashCommandCreate{
	Name:        "unsubscribe",
	Description: "📭 Cancel a faction subscription",
	Options:     []discord.ApplicationCommandOption{factionOption},
}

var Tier = discord.SlashCommandCreate{
	Name:        "tier",
	Description: "🔁 Change the tier of a faction subscription",
	Options:     []discord.ApplicationCommandOption{factionOption, tierOption},
}

var Slots = discord.SlashCommandCreate{
	Name:        "slots",
	Description: "🗓️ Show your subscriptions and their generation slots",
}

var Slot = discord.SlashCommandCreate{
	Name:        "slot",
	Description: "🎰 Put a subscribed faction on a generation slot or take it off",
	Options: []discord.ApplicationCommandOption{
		factionOption,
		discord.ApplicationCommandOptionBool{
			Name:        "assign",
			Description: "True to assign the slot, false to release it",
			Required:    true,
		},
	},
}

func tierFrom(e *handler.CommandEvent) (subscription.Tier, error) {
	raw := e.SlashCommandInteractionData().String("tier")
	tier, err := subscription.ParseTier(raw)
	if err != nil {
		return "", rules.Reject(rules.InvalidTransition, "%s is not an available tier", raw)
	}
	return tier, nil
}

func factionFrom(e *handler.CommandEvent) string {
	return strings.TrimSpace(e.SlashCommandInteractionData().String("faction"))
}

func SubscribeHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		tier, err := tierFrom(e)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		rec, err := b.Game.Subscribe(ctx, e.User().ID.String(), factionFrom(e), tier)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "📬 Subscribed",
				Description: fmt.Sprintf("You are now subscribed to **%s** on the **%s** tier.\n%d credits per day • up to %d cards per day • one every %s",
					rec.FactionID, rec.Tier, rec.DailyCost, rec.DailyGenerationLimit, rec.GenerationInterval),
				Color: handlers.SuccessColor,
			}},
		})
	}
}

func UnsubscribeHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		faction := factionFrom(e)

		ctx, cancel := commandContext()
		defer cancel()

		refund, err := b.Game.Unsubscribe(ctx, e.User().ID.String(), faction)
		if err != nil {
			return err
		}
		description := fmt.Sprintf("Your **%s** subscription was cancelled.", faction)
		if refund > 0 {
			description += fmt.Sprintf("\nRefunded **%d** credits.", refund)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📭 Unsubscribed",
				Description: description,
				Color:       handlers.InfoColor,
			}},
		})
	}
}

func TierHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		tier, err := tierFrom(e)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		change, err := b.Game.ChangeTier(ctx, e.User().ID.String(), factionFrom(e), tier)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🔁 Tier Changed",
				Description: tierChangeText(change),
				Color:       handlers.SuccessColor,
			}},
		})
	}
}

func tierChangeText(c subscription.TierChange) string {
	text := fmt.Sprintf("**%s** ➜ **%s**", c.From, c.To)
	switch {
	case c.Charged > 0:
		text += fmt.Sprintf("\nCharged **%d** credits.", c.Charged)
	case c.Refunded > 0:
		text += fmt.Sprintf("\nRefunded **%d** credits.", c.Refunded)
	}
	return text
}

func SlotsHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		slots, err := b.Game.Slots(ctx, e.User().ID.String())
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: "You have no subscriptions. Use `/subscribe` to start one.",
					Color:       handlers.InfoColor,
				}},
			})
		}

		var sb strings.Builder
		for _, s := range slots {
			sb.WriteString(slotLine(s, time.Now()))
			sb.WriteString("\n")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🗓️ Subscriptions",
				Description: sb.String(),
				Color:       handlers.DefaultColor,
			}},
		})
	}
}

var statusIcons = map[subscription.SlotStatus]string{
	subscription.SlotEmpty:        "⬜",
	subscription.SlotWaiting:      "⏳",
	subscription.SlotActive:       "🟢",
	subscription.SlotLimitReached: "🛑",
}

func slotLine(s game.Slot, now time.Time) string {
	r := s.Record
	line := fmt.Sprintf("%s **%s** • %s • %d/%d today • affinity %d",
		statusIcons[s.Status], r.FactionID, r.Tier, r.GenerationsToday, r.DailyGenerationLimit, r.Affinity)
	switch s.Status {
	case subscription.SlotWaiting:
		if s.Next != nil {
			line += fmt.Sprintf(" • next in %s", s.Next.Sub(now).Round(time.Minute))
		}
	case subscription.SlotEmpty:
		line += " • no slot"
	case subscription.SlotLimitReached:
		line += " • limit reached"
	case subscription.SlotActive:
		line += " • generating"
	}
	return line
}

func SlotHandler(b *clashbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		assign := e.SlashCommandInteractionData().Bool("assign")

		ctx, cancel := commandContext()
		defer cancel()

		slot, err := b.Game.SetSlot(ctx, e.User().ID.String(), factionFrom(e), assign)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎰 Slot Updated",
				Description: slotLine(slot, time.Now()),
				Color:       handlers.SuccessColor,
			}},
		})
	}
}
