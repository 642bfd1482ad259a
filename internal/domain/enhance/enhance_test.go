package enhance

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/rules"
)

func target(level int) *cards.Card {
	stats := cards.Stats{Efficiency: 20, Creativity: 15, Function: 10}
	stats.Normalize()
	return &cards.Card{
		ID:         "target",
		TemplateID: "tpl-1",
		Name:       "Spark",
		Rarity:     cards.Rare,
		Type:       cards.Efficiency,
		Stats:      stats,
		Level:      level,
		Experience: 40,
	}
}

func copies(n int, templateID string) []*cards.Card {
	out := make([]*cards.Card, n)
	for i := range out {
		out[i] = &cards.Card{ID: fmt.Sprintf("m%d", i), TemplateID: templateID, Level: 1}
	}
	return out
}

func TestEnhanceLevelThreeWithExactBalance(t *testing.T) {
	src := cards.NewScripted(0, 0.5, 0.99)
	e := NewEngine(src)
	tgt := target(3)

	out, err := e.Enhance(tgt, copies(10, "tpl-1"), 150)
	require.NoError(t, err)

	require.True(t, out.Success)
	assert.Equal(t, int64(150), out.Cost)
	assert.Equal(t, int64(0), out.Balance)
	assert.Equal(t, 4, out.Card.Level)
	assert.Zero(t, out.Card.Experience)
	assert.Equal(t, 21, out.Card.Stats.Efficiency)
	assert.Equal(t, 17, out.Card.Stats.Creativity)
	assert.Equal(t, 13, out.Card.Stats.Function)
	assert.Equal(t, 51, out.Card.Stats.TotalPower)
	assert.Equal(t, 6, out.Gains.TotalPower)
	assert.Len(t, out.Consumed, 10)

	assert.Equal(t, 3, tgt.Level, "target is not mutated")
	assert.Equal(t, 45, tgt.Stats.TotalPower)
}

func TestCanEnhanceRejections(t *testing.T) {
	e := NewEngine(cards.NewScripted(0))

	withTarget := copies(10, "tpl-1")
	withTarget[4] = target(2)

	wrongTemplate := copies(10, "tpl-1")
	wrongTemplate[9].TemplateID = "tpl-2"

	locked := copies(10, "tpl-1")
	locked[0].IsLocked = true

	dup := copies(10, "tpl-1")
	dup[1] = dup[0]

	tests := []struct {
		name      string
		target    *cards.Card
		materials []*cards.Card
		balance   int64
		want      error
	}{
		{name: "max level", target: target(cards.MaxLevel), materials: copies(10, "tpl-1"), balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "nine materials", target: target(2), materials: copies(9, "tpl-1"), balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "eleven materials", target: target(2), materials: copies(11, "tpl-1"), balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "target among materials", target: target(2), materials: withTarget, balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "template mismatch", target: target(2), materials: wrongTemplate, balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "locked material", target: target(2), materials: locked, balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "duplicate material", target: target(2), materials: dup, balance: 10000, want: rules.ErrInvalidMaterials},
		{name: "one credit short", target: target(3), materials: copies(10, "tpl-1"), balance: 149, want: rules.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CanEnhance(tt.target, tt.materials, tt.balance)
			require.ErrorIs(t, err, tt.want)
			assert.NotEmpty(t, rules.Reason(err))
		})
	}
}

func TestCostAndDiscount(t *testing.T) {
	assert.Equal(t, int64(150), NewEngine(nil).Cost(3))
	assert.Equal(t, int64(112), NewEngine(nil, WithDiscount(0.25)).Cost(3))
	assert.Equal(t, int64(0), NewEngine(nil, WithDiscount(4)).Cost(3))
	assert.Equal(t, int64(240), NewEngine(nil, WithCostPerLevel(80)).Cost(3))
}

func TestSuccessRateIsCapped(t *testing.T) {
	assert.Equal(t, 1.0, NewEngine(nil).SuccessRate())
	assert.Equal(t, 1.0, NewEngine(nil, WithFailureRate(-0.5)).SuccessRate())
	assert.InDelta(t, 0.7, NewEngine(nil, WithFailureRate(0.3)).SuccessRate(), 1e-9)
	assert.Equal(t, 0.0, NewEngine(nil, WithFailureRate(2)).SuccessRate())
}

func TestEnhanceFailureStillConsumes(t *testing.T) {
	src := cards.NewScripted(0.9)
	e := NewEngine(src, WithFailureRate(0.5))

	out, err := e.Enhance(target(2), copies(10, "tpl-1"), 500)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, 2, out.Card.Level)
	assert.Equal(t, int64(400), out.Balance)
	assert.Len(t, out.Consumed, 10)
	assert.Equal(t, 1, src.Draws())
}

func TestPreview(t *testing.T) {
	e := NewEngine(nil)

	p, err := e.Preview(target(5))
	require.NoError(t, err)
	assert.Equal(t, Preview{Level: 5, NextLevel: 6, Cost: 250, MinGain: 1, MaxGain: 3, SuccessRate: 1}, p)

	_, err = e.Preview(target(cards.MaxLevel))
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
}

func TestEnhancedCardsKeepInvariants(t *testing.T) {
	e := NewEngine(rand.New(rand.NewPCG(1, 2)))
	c := target(1)

	for c.Level < cards.MaxLevel {
		before := c.Stats
		out, err := e.Enhance(c, copies(10, "tpl-1"), 1_000_000)
		require.NoError(t, err)
		for _, typ := range cards.Types {
			gain := out.Card.Stats.Get(typ) - before.Get(typ)
			assert.GreaterOrEqual(t, gain, 1)
			assert.LessOrEqual(t, gain, 3)
		}
		assert.Equal(t, out.Card.Stats.Sum(), out.Card.Stats.TotalPower)
		c = out.Card
	}

	_, err := e.Enhance(c, copies(10, "tpl-1"), 1_000_000)
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
}
