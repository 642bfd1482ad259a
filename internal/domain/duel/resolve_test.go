package duel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
)

func card(id string, t cards.Type, e, c, f int) *cards.Card {
	stats := cards.Stats{Efficiency: e, Creativity: c, Function: f}
	stats.Normalize()
	return &cards.Card{ID: id, Type: t, Stats: stats, Level: 1}
}

func withSkill(c *cards.Card, name string) *cards.Card {
	c.SpecialSkill = &cards.SpecialSkill{Name: name}
	return c
}

func TestHasAdvantageCycle(t *testing.T) {
	for _, a := range cards.Types {
		assert.False(t, cards.HasAdvantage(a, a), "%s vs itself", a)
		for _, b := range cards.Types {
			if a == b {
				continue
			}
			assert.NotEqual(t, cards.HasAdvantage(a, b), cards.HasAdvantage(b, a), "%s vs %s", a, b)
		}
	}
	assert.True(t, cards.HasAdvantage(cards.Efficiency, cards.Function))
	assert.True(t, cards.HasAdvantage(cards.Function, cards.Creativity))
	assert.True(t, cards.HasAdvantage(cards.Creativity, cards.Efficiency))
}

func TestResolveSingleTypeAdvantage(t *testing.T) {
	r := NewResolver(nil)
	player := card("p", cards.Efficiency, 40, 30, 30)
	enemy := card("e", cards.Function, 30, 30, 40)

	res := r.ResolveSingle(player, enemy, nil, nil)

	assert.Equal(t, Player, res.Winner)
	assert.InDelta(t, 130, res.PlayerPower, 1e-9)
	assert.InDelta(t, 100, res.EnemyPower, 1e-9)
	assert.True(t, res.PlayerAdvantage)
	assert.False(t, res.EnemyAdvantage)
}

func TestResolveSingleDrawAndLoss(t *testing.T) {
	r := NewResolver(nil)

	draw := r.ResolveSingle(card("p", cards.Efficiency, 10, 10, 10), card("e", cards.Efficiency, 15, 10, 5), nil, nil)
	assert.Equal(t, Draw, draw.Winner)

	loss := r.ResolveSingle(card("p", cards.Creativity, 30, 30, 30), card("e", cards.Function, 30, 30, 30), nil, nil)
	assert.Equal(t, Enemy, loss.Winner)
	assert.True(t, loss.EnemyAdvantage)
	assert.InDelta(t, 117, loss.EnemyPower, 1e-9)
}

func TestResolveUsesStatSumNotStoredTotal(t *testing.T) {
	r := NewResolver(nil)
	player := card("p", cards.Efficiency, 10, 10, 10)
	player.Stats.TotalPower = 999

	res := r.ResolveSingle(player, card("e", cards.Efficiency, 20, 10, 10), nil, nil)
	assert.Equal(t, Enemy, res.Winner)
	assert.InDelta(t, 30, res.PlayerPower, 1e-9)
}

func TestSkillBonuses(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		card     *cards.Card
		deck     func(self *cards.Card) []*cards.Card
		opponent *cards.Card
		want     float64
	}{
		{
			name: "overclock adds ten percent",
			card: withSkill(card("a", cards.Efficiency, 40, 30, 30), "Overclock"),
			want: 10,
		},
		{
			name: "rally cry adds twenty percent",
			card: withSkill(card("a", cards.Efficiency, 40, 30, 30), "Rally Cry"),
			want: 20,
		},
		{
			name: "muse needs a creativity deck mate",
			card: withSkill(card("a", cards.Efficiency, 40, 30, 30), "Muse"),
			deck: func(self *cards.Card) []*cards.Card {
				return []*cards.Card{self, card("b", cards.Creativity, 1, 1, 1)}
			},
			want: 25,
		},
		{
			name: "muse ignores itself",
			card: withSkill(card("a", cards.Creativity, 40, 30, 30), "muse"),
			deck: func(self *cards.Card) []*cards.Card {
				return []*cards.Card{self, card("b", cards.Function, 1, 1, 1)}
			},
			want: 0,
		},
		{
			name: "inspiration uses creativity only",
			card: withSkill(card("a", cards.Creativity, 10, 50, 40), "Inspiration"),
			want: 15,
		},
		{
			name:     "underdog triggers against stronger defender",
			card:     withSkill(card("a", cards.Function, 20, 20, 10), "underdog"),
			opponent: card("e", cards.Function, 30, 30, 30),
			want:     10,
		},
		{
			name:     "underdog stays quiet against weaker defender",
			card:     withSkill(card("a", cards.Function, 20, 20, 10), "Underdog"),
			opponent: card("e", cards.Function, 1, 1, 1),
			want:     0,
		},
		{
			name: "kinship counts same type mates",
			card: withSkill(card("a", cards.Function, 40, 30, 30), "Kinship"),
			deck: func(self *cards.Card) []*cards.Card {
				return []*cards.Card{self, card("b", cards.Function, 1, 1, 1), card("c", cards.Function, 1, 1, 1), card("d", cards.Efficiency, 1, 1, 1)}
			},
			want: 10,
		},
		{
			name: "unknown skill gives nothing",
			card: withSkill(card("a", cards.Function, 40, 30, 30), "Mystery"),
			want: 0,
		},
		{
			name: "no skill gives nothing",
			card: card("a", cards.Function, 40, 30, 30),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deck []*cards.Card
			if tt.deck != nil {
				deck = tt.deck(tt.card)
			}
			opponent := tt.opponent
			if opponent == nil {
				opponent = card("e", cards.Efficiency, 1, 1, 1)
			}
			got, _ := r.SkillBonus(Context{Card: tt.card, Deck: deck, Opponent: opponent})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRallyCryTeamBonus(t *testing.T) {
	r := NewResolver(nil)
	leader := withSkill(card("lead", cards.Creativity, 5, 5, 5), "Rally Cry")
	fighter := card("f", cards.Efficiency, 40, 30, 30)
	deck := []*cards.Card{leader, fighter}

	res := r.ResolveSingle(fighter, card("e", cards.Efficiency, 1, 1, 1), deck, nil)
	assert.InDelta(t, 105, res.PlayerPower, 1e-9)
}

func TestSynergyBonus(t *testing.T) {
	fighter := card("f", cards.Efficiency, 40, 30, 30)
	deck := []*cards.Card{
		fighter,
		card("b", cards.Efficiency, 1, 1, 1),
		card("c", cards.Efficiency, 1, 1, 1),
		card("d", cards.Function, 1, 1, 1),
		card("e", cards.Function, 1, 1, 1),
	}
	assert.InDelta(t, 10, SynergyBonus(fighter, deck), 1e-9)
	assert.Zero(t, SynergyBonus(fighter, deck[:2]))
}

func TestCommanderHook(t *testing.T) {
	r := NewResolver(nil, WithCommanderBonus(func(*cards.Card, []*cards.Card) float64 { return 7 }))
	res := r.ResolveSingle(card("p", cards.Efficiency, 10, 10, 10), card("e", cards.Efficiency, 10, 10, 10), nil, nil)

	assert.Equal(t, Draw, res.Winner)
	assert.InDelta(t, 37, res.PlayerPower, 1e-9)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := DefaultRegistry()
	err := r.Register(Ability{ID: AbilityOverclock})
	require.Error(t, err)

	require.NoError(t, r.Register(Ability{
		ID:    "second_wind",
		Name:  "Second Wind",
		Bonus: func(ctx Context) float64 { return 3 },
	}))
	got, name := r.SkillBonus(Context{Card: withSkill(card("a", cards.Function, 1, 1, 1), "Second Wind")})
	assert.InDelta(t, 3, got, 1e-9)
	assert.Equal(t, "Second Wind", name)
}
