package battle

import (
	"slices"

	"github.com/cardclash/bot/internal/domain/cards"
)

// HiddenChooser picks a hidden card index out of pool for the round whose main
// card sits at mainIdx. losing reports whether the chooser's side trails.
type HiddenChooser interface {
	ChooseHidden(deck []*cards.Card, pool []int, mainIdx int, losing bool) int
}

// AIChooser is the enemy heuristic. Same-type-as-main cards come first, the
// strongest of them. Otherwise a trailing AI plays its strongest card and a
// leading AI plays the median of the pool so a human behind on wins keeps a
// chance.
type AIChooser struct{}

func (AIChooser) ChooseHidden(deck []*cards.Card, pool []int, mainIdx int, losing bool) int {
	if len(pool) == 0 {
		return -1
	}

	mainType := deck[mainIdx].Type
	var sameType []int
	for _, i := range pool {
		if deck[i].Type == mainType {
			sameType = append(sameType, i)
		}
	}
	if len(sameType) > 0 {
		return strongest(deck, sameType)
	}
	if losing {
		return strongest(deck, pool)
	}

	sorted := sortByPower(deck, pool)
	return sorted[len(sorted)/2]
}

// StrongestChooser always plays the highest-power card in the pool.
type StrongestChooser struct{}

func (StrongestChooser) ChooseHidden(deck []*cards.Card, pool []int, _ int, _ bool) int {
	if len(pool) == 0 {
		return -1
	}
	return strongest(deck, pool)
}

// PlannedChooser plays the player's picks in hidden-round order and hands
// over to Fallback once they run out. A nil Fallback plays the strongest card.
type PlannedChooser struct {
	Picks    []int
	Fallback HiddenChooser
	next     int
}

func (c *PlannedChooser) ChooseHidden(deck []*cards.Card, pool []int, mainIdx int, losing bool) int {
	if c.next < len(c.Picks) {
		pick := c.Picks[c.next]
		c.next++
		return pick
	}
	if c.Fallback == nil {
		return StrongestChooser{}.ChooseHidden(deck, pool, mainIdx, losing)
	}
	return c.Fallback.ChooseHidden(deck, pool, mainIdx, losing)
}

// HiddenRounds is the number of hidden rounds in a full match.
func HiddenRounds() int {
	n := 0
	for r := 1; r <= Rounds; r++ {
		if IsHiddenRound(r) {
			n++
		}
	}
	return n
}

// strongest returns the highest-power index, the earliest on ties.
func strongest(deck []*cards.Card, pool []int) int {
	best := pool[0]
	for _, i := range pool[1:] {
		if deck[i].BasePower() > deck[best].BasePower() {
			best = i
		}
	}
	return best
}

// sortByPower orders pool by ascending total power. Ties keep the lower
// index first.
func sortByPower(deck []*cards.Card, pool []int) []int {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b int) int {
		return deck[a].BasePower() - deck[b].BasePower()
	})
	return sorted
}
