package generator

import (
	"github.com/cardclash/bot/internal/domain/cards"
)

// Research holds the player's research levels. Stat research adds flat stat
// points after the power split; Fortune shifts draw odds toward epic and
// legendary.
type Research struct {
	Efficiency int `toml:"efficiency"`
	Creativity int `toml:"creativity"`
	Function   int `toml:"function"`
	Fortune    int `toml:"fortune"`
}

// TierBonus is the additive rarity bonus granted by a subscription tier.
type TierBonus struct {
	Rare      float64 `toml:"rare"`
	Epic      float64 `toml:"epic"`
	Legendary float64 `toml:"legendary"`
}

const (
	affinityRareRate      = 0.10
	affinityEpicRate      = 0.05
	affinityLegendaryRate = 0.02

	fortuneEpicRate      = 1.0
	fortuneLegendaryRate = 0.5
)

// ProfileInput collects everything that shapes a rarity weight profile.
type ProfileInput struct {
	// Base defaults to cards.BaseWeights() when nil.
	Base cards.Weights
	Tier TierBonus
	// Affinity is the 0-100 subscription loyalty score.
	Affinity int
	// TrendMultiplier scales every non-common weight when the faction is
	// trending. Values <= 0 are ignored.
	TrendMultiplier float64
	Research        Research
}

// BuildProfile combines the base table with trend, tier, affinity and
// research bonuses. Every additive bonus is taken out of common, which is
// floored at zero and never goes negative.
func BuildProfile(in ProfileInput) cards.Weights {
	w := in.Base.Clone()
	if in.Base == nil {
		w = cards.BaseWeights()
	}

	if in.TrendMultiplier > 0 && in.TrendMultiplier != 1 {
		for _, r := range cards.Rarities {
			if r == cards.Common {
				continue
			}
			w[r] *= in.TrendMultiplier
		}
	}

	w.Shift(cards.Rare, in.Tier.Rare)
	w.Shift(cards.Epic, in.Tier.Epic)
	w.Shift(cards.Legendary, in.Tier.Legendary)

	affinity := float64(clamp(in.Affinity, 0, 100))
	w.Shift(cards.Rare, affinity*affinityRareRate)
	w.Shift(cards.Epic, affinity*affinityEpicRate)
	w.Shift(cards.Legendary, affinity*affinityLegendaryRate)

	if in.Research.Fortune > 0 {
		w.Shift(cards.Epic, float64(in.Research.Fortune)*fortuneEpicRate)
		w.Shift(cards.Legendary, float64(in.Research.Fortune)*fortuneLegendaryRate)
	}

	return w
}

// Draw selects a rarity by weighted random draw: r = random()*total, each
// positive weight is subtracted in ascending rarity order and the first
// rarity at which r goes non-positive wins. Zero weights are skipped so a
// rarity without weight can never be drawn. If float error lets r stay
// positive, the lowest weighted rarity is returned.
func Draw(w cards.Weights, src cards.Source) cards.Rarity {
	total := w.Total()
	r := src.Float64() * total
	if total <= 0 {
		return cards.Common
	}

	fallback, found := cards.Common, false
	for _, rarity := range cards.Rarities {
		weight := w[rarity]
		if weight <= 0 {
			continue
		}
		if !found {
			fallback, found = rarity, true
		}
		r -= weight
		if r <= 0 {
			return rarity
		}
	}
	return fallback
}

// StatResearchBonus converts a research level into flat stat points:
// one point per level up to 5, two per level up to 10, three beyond.
func StatResearchBonus(level int) int {
	switch {
	case level <= 0:
		return 0
	case level <= 5:
		return level
	case level <= 10:
		return 5 + (level-5)*2
	default:
		return 15 + (level-10)*3
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
