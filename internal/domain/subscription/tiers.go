package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardclash/bot/internal/domain/generator"
)

type Tier string

const (
	Free  Tier = "free"
	Pro   Tier = "pro"
	Ultra Tier = "ultra"
)

// Tiers lists every tier from cheapest to most expensive.
var Tiers = []Tier{Free, Pro, Ultra}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Free, Pro, Ultra:
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TierConfig is what a tier costs and grants.
type TierConfig struct {
	Tier                 Tier
	DailyCost            int64
	DailyGenerationLimit int
	GenerationInterval   time.Duration
	Bonus                generator.TierBonus
}

// Table maps each tier to its configuration.
type Table map[Tier]TierConfig

func DefaultTable() Table {
	return Table{
		Free: {
			Tier:                 Free,
			DailyCost:            0,
			DailyGenerationLimit: 3,
			GenerationInterval:   4 * time.Hour,
		},
		Pro: {
			Tier:                 Pro,
			DailyCost:            20,
			DailyGenerationLimit: 10,
			GenerationInterval:   time.Hour,
			Bonus:                generator.TierBonus{Rare: 5, Epic: 2},
		},
		Ultra: {
			Tier:                 Ultra,
			DailyCost:            40,
			DailyGenerationLimit: 30,
			GenerationInterval:   20 * time.Minute,
			Bonus:                generator.TierBonus{Rare: 10, Epic: 5, Legendary: 2},
		},
	}
}

func (t Table) Lookup(tier Tier) (TierConfig, error) {
	cfg, ok := t[tier]
	if !ok {
		return TierConfig{}, fmt.Errorf("tier %q is not configured", tier)
	}
	return cfg, nil
}
