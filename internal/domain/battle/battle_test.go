package battle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/rules"
)

func card(id string, t cards.Type, power int) *cards.Card {
	stats := cards.Stats{Efficiency: power}
	stats.Normalize()
	return &cards.Card{ID: id, Type: t, Stats: stats, Level: 1}
}

func deck(prefix string, t cards.Type, powers ...int) []*cards.Card {
	out := make([]*cards.Card, len(powers))
	for i, p := range powers {
		out[i] = card(fmt.Sprintf("%s%d", prefix, i), t, p)
	}
	return out
}

func TestNewMatchValidatesDeckSize(t *testing.T) {
	_, err := NewMatch(deck("p", cards.Efficiency, 1, 2, 3), deck("e", cards.Efficiency, 1, 2, 3, 4, 5))
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)

	m, err := NewMatch(deck("p", cards.Efficiency, 1, 2, 3, 4, 5), deck("e", cards.Efficiency, 1, 2, 3, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, m.RoundNumber())
	assert.False(t, m.Finished)
}

func TestHiddenRounds(t *testing.T) {
	var hidden []int
	for n := 1; n <= Rounds; n++ {
		if IsHiddenRound(n) {
			hidden = append(hidden, n)
		}
	}
	assert.Equal(t, []int{2, 4}, hidden)
}

func TestHiddenPool(t *testing.T) {
	m := &Match{CurrentRoundIndex: 1, UsedMainIndices: []int{0}}
	assert.Equal(t, []int{2, 3, 4}, m.HiddenPool())

	m = &Match{CurrentRoundIndex: 3, UsedMainIndices: []int{0, 1, 2}}
	assert.Equal(t, []int{4}, m.HiddenPool())
}

func TestHiddenRoundMainTakesPrecedence(t *testing.T) {
	player := deck("p", cards.Efficiency, 30, 30, 3, 3, 3)
	enemy := deck("e", cards.Efficiency, 10, 10, 60, 60, 60)
	m, err := NewMatch(player, enemy)
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	first, err := o.PlayRound(m, -1)
	require.NoError(t, err)
	assert.Equal(t, duel.Player, first.Winner)
	assert.False(t, first.Hidden)

	second, err := o.PlayRound(m, 2)
	require.NoError(t, err)
	require.True(t, second.Hidden)
	require.NotNil(t, second.HiddenDuel)
	assert.Equal(t, duel.Player, second.Main.Winner)
	assert.Equal(t, duel.Enemy, second.HiddenDuel.Winner)
	assert.Equal(t, duel.Player, second.Winner)
	assert.Equal(t, 2, second.PlayerHiddenIndex)
	assert.Contains(t, []int{2, 3, 4}, second.EnemyHiddenIndex)

	assert.Equal(t, 2, m.PlayerWins)
	assert.Equal(t, 0, m.EnemyWins)
	assert.Equal(t, []int{0, 1}, m.UsedMainIndices)
}

func TestHiddenRoundEnemyWinsBoth(t *testing.T) {
	player := deck("p", cards.Efficiency, 30, 5, 3, 3, 3)
	enemy := deck("e", cards.Efficiency, 10, 50, 60, 60, 60)
	m, err := NewMatch(player, enemy)
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	_, err = o.PlayRound(m, -1)
	require.NoError(t, err)
	res, err := o.PlayRound(m, 3)
	require.NoError(t, err)

	assert.Equal(t, duel.Enemy, res.Main.Winner)
	assert.Equal(t, duel.Enemy, res.HiddenDuel.Winner)
	assert.Equal(t, duel.Enemy, res.Winner)
	assert.Equal(t, 1, m.PlayerWins)
	assert.Equal(t, 1, m.EnemyWins)
}

func TestHiddenRoundRejectsIneligibleCard(t *testing.T) {
	m, err := NewMatch(deck("p", cards.Efficiency, 30, 30, 3, 3, 3), deck("e", cards.Efficiency, 10, 10, 60, 60, 60))
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	_, err = o.PlayRound(m, -1)
	require.NoError(t, err)

	for _, idx := range []int{0, 1, 7, -1} {
		_, err = o.PlayRound(m, idx)
		require.ErrorIs(t, err, rules.ErrInvalidMaterials, "index %d", idx)
	}
	assert.Equal(t, 1, m.CurrentRoundIndex)
}

func TestDrawGoesToPlayer(t *testing.T) {
	m, err := NewMatch(deck("p", cards.Efficiency, 10, 10, 10, 10, 10), deck("e", cards.Efficiency, 10, 10, 10, 10, 10))
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	res, err := o.PlayRound(m, -1)
	require.NoError(t, err)
	assert.Equal(t, duel.Draw, res.Main.Winner)
	assert.Equal(t, duel.Player, res.Winner)
}

func TestMatchEndsAtThreeWins(t *testing.T) {
	m, err := NewMatch(deck("p", cards.Efficiency, 50, 50, 50, 50, 50), deck("e", cards.Efficiency, 10, 10, 10, 10, 10))
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	require.NoError(t, o.PlayAll(m, nil))

	assert.True(t, m.Finished)
	assert.Equal(t, duel.Player, m.Winner)
	assert.Equal(t, 3, m.PlayerWins)
	assert.Len(t, m.History, 3)

	_, err = o.PlayRound(m, -1)
	require.ErrorIs(t, err, rules.ErrInvalidTransition)
}

func TestMatchRunsFullLengthWhenContested(t *testing.T) {
	// Rounds alternate: player takes 1, 3, 5 and the enemy takes 2 and 4.
	player := deck("p", cards.Efficiency, 50, 5, 50, 5, 50)
	enemy := deck("e", cards.Efficiency, 10, 40, 10, 40, 10)
	m, err := NewMatch(player, enemy)
	require.NoError(t, err)
	o := NewOrchestrator(nil, nil)

	require.NoError(t, o.PlayAll(m, nil))

	assert.True(t, m.Finished)
	assert.Len(t, m.History, 5)
	assert.Equal(t, 3, m.PlayerWins)
	assert.Equal(t, 2, m.EnemyWins)
	assert.Equal(t, duel.Player, m.Winner)
}

func TestAIChooser(t *testing.T) {
	mixed := []*cards.Card{
		card("0", cards.Efficiency, 20),
		card("1", cards.Function, 40),
		card("2", cards.Creativity, 10),
		card("3", cards.Function, 50),
		card("4", cards.Creativity, 30),
	}
	allSame := []*cards.Card{
		card("0", cards.Efficiency, 20),
		card("1", cards.Efficiency, 40),
		card("2", cards.Efficiency, 10),
		card("3", cards.Efficiency, 50),
		card("4", cards.Efficiency, 30),
	}

	tests := []struct {
		name    string
		deck    []*cards.Card
		pool    []int
		mainIdx int
		losing  bool
		want    int
	}{
		{name: "prefers strongest same type", deck: mixed, pool: []int{2, 3, 4}, mainIdx: 1, want: 3},
		{name: "same type wins over losing", deck: mixed, pool: []int{2, 3, 4}, mainIdx: 1, losing: true, want: 3},
		{name: "losing plays strongest", deck: mixed, pool: []int{1, 2, 4}, mainIdx: 0, losing: true, want: 1},
		{name: "winning plays median", deck: mixed, pool: []int{1, 2, 4}, mainIdx: 0, want: 4},
		{name: "single candidate", deck: allSame, pool: []int{4}, mainIdx: 3, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AIChooser{}.ChooseHidden(tt.deck, tt.pool, tt.mainIdx, tt.losing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlannedChooser(t *testing.T) {
	player := deck("p", cards.Efficiency, 50, 5, 50, 5, 50)
	enemy := deck("e", cards.Efficiency, 10, 40, 10, 40, 10)
	m, err := NewMatch(player, enemy)
	require.NoError(t, err)

	require.NoError(t, NewOrchestrator(nil, nil).PlayAll(m, &PlannedChooser{Picks: []int{3}}))

	require.Len(t, m.History, 5)
	assert.Equal(t, 3, m.History[1].PlayerHiddenIndex)
	// Picks ran out, so round 4 falls back to the only eligible slot.
	assert.Equal(t, 4, m.History[3].PlayerHiddenIndex)
}

func TestPlannedChooserRejectsIneligiblePick(t *testing.T) {
	player := deck("p", cards.Efficiency, 50, 5, 50, 5, 50)
	enemy := deck("e", cards.Efficiency, 10, 40, 10, 40, 10)
	m, err := NewMatch(player, enemy)
	require.NoError(t, err)

	err = NewOrchestrator(nil, nil).PlayAll(m, &PlannedChooser{Picks: []int{0}})
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
	assert.Equal(t, "slot 1 cannot be played as the hidden card this round", rules.Reason(err))
}

func TestHiddenRoundCount(t *testing.T) {
	assert.Equal(t, 2, HiddenRounds())
}
