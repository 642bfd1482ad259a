package mock

import (
	"time"

	"github.com/cardclash/bot/internal/domain/cards"
)

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Cards is a small collection owned by user "123".
var Cards = []*cards.Card{
	{
		ID: "c1", TemplateID: "c-ember", OwnerID: "123", Name: "Ember Scout", Faction: "ember",
		Rarity: cards.Common, Type: cards.Efficiency, Level: 1, CreatedAt: created,
		Stats: cards.Stats{Efficiency: 14, Creativity: 8, Function: 8, TotalPower: 30},
	},
	{
		ID: "c2", TemplateID: "r-nova", OwnerID: "123", Name: "Nova Herald", Faction: "stellar",
		Rarity: cards.Rare, Type: cards.Creativity, Level: 2, CreatedAt: created,
		Stats:        cards.Stats{Efficiency: 15, Creativity: 30, Function: 15, TotalPower: 60},
		SpecialSkill: &cards.SpecialSkill{Name: "Rally Cry"},
	},
	{
		ID: "c3", TemplateID: "c-tide", OwnerID: "123", Name: "Tide Runner", Faction: "tide",
		Rarity: cards.Common, Type: cards.Function, Level: 1, IsLocked: true, CreatedAt: created,
		Stats: cards.Stats{Efficiency: 10, Creativity: 10, Function: 20, TotalPower: 40},
	},
}
