package generator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cardclash/bot/internal/domain/cards"
)

var ErrNoTemplates = errors.New("template catalog has no common templates")

// Templates is the read side of the template catalog.
type Templates interface {
	ByRarity(r cards.Rarity) []cards.Template
}

// Trend marks a faction as currently trending.
type Trend struct {
	Faction    string
	Multiplier float64
}

// Bonuses are optional modifiers applied to a single generation.
type Bonuses struct {
	Research Research
	// PowerBonus scales the rolled power by 1+PowerBonus (faction effects).
	PowerBonus float64
	Trend      *Trend
}

const (
	mainRatioMin = 0.40
	mainRatioMax = 0.60
	subStatFloor = 5
)

type Generator struct {
	templates Templates
	src       cards.Source
	newID     func() string
	now       func() time.Time
}

type Option func(*Generator)

func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(g *Generator) { g.now = fn }
}

func New(templates Templates, src cards.Source, opts ...Option) *Generator {
	g := &Generator{
		templates: templates,
		src:       src,
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate rolls a new level 1 card for owner. Draw order: rarity, template,
// power, main ratio, main type, sub-stat split.
func (g *Generator) Generate(ownerID string, profile cards.Weights, bonuses Bonuses) (*cards.Card, error) {
	rarity := Draw(profile, g.src)

	tpl, err := g.pickTemplate(rarity)
	if err != nil {
		return nil, err
	}

	total := g.rollPower(rarity, tpl.Faction, bonuses)
	stats, mainType := SplitPower(total, g.src)

	stats.Efficiency += StatResearchBonus(bonuses.Research.Efficiency)
	stats.Creativity += StatResearchBonus(bonuses.Research.Creativity)
	stats.Function += StatResearchBonus(bonuses.Research.Function)
	stats.Normalize()

	card := &cards.Card{
		ID:         g.newID(),
		TemplateID: tpl.ID,
		OwnerID:    ownerID,
		Name:       tpl.Name,
		Faction:    tpl.Faction,
		Rarity:     rarity,
		Type:       mainType,
		Stats:      stats,
		Level:      1,
		Experience: 0,
		CreatedAt:  g.now(),
	}
	if tpl.Skill != nil {
		skill := *tpl.Skill
		card.SpecialSkill = &skill
	}
	return card, nil
}

// pickTemplate chooses uniformly among templates of the rarity, falling back
// to a random common template. The card keeps the drawn rarity either way.
func (g *Generator) pickTemplate(rarity cards.Rarity) (cards.Template, error) {
	pool := g.templates.ByRarity(rarity)
	if len(pool) == 0 {
		pool = g.templates.ByRarity(cards.Common)
	}
	if len(pool) == 0 {
		return cards.Template{}, fmt.Errorf("generate %s card: %w", rarity, ErrNoTemplates)
	}
	return pool[cards.Pick(g.src, len(pool))], nil
}

func (g *Generator) rollPower(rarity cards.Rarity, faction string, bonuses Bonuses) int {
	rng := cards.PowerRange(rarity)
	power := float64(cards.IntBetween(g.src, rng.Min, rng.Max))
	power *= 1 + bonuses.PowerBonus
	if t := bonuses.Trend; t != nil && t.Multiplier > 0 && t.Faction != "" && t.Faction == faction {
		power *= t.Multiplier
	}
	return int(math.Floor(power))
}

// SplitPower divides total between the three stats. A main type is chosen
// uniformly and receives floor(total*ratio) with ratio in [0.40, 0.60); the
// other two share the remainder with at least 5 points each.
func SplitPower(total int, src cards.Source) (cards.Stats, cards.Type) {
	ratio := cards.FloatBetween(src, mainRatioMin, mainRatioMax)
	main := int(math.Floor(float64(total) * ratio))
	remainder := total - main
	if remainder < 2*subStatFloor {
		remainder = 2 * subStatFloor
		main = total - remainder
		if main < 0 {
			main = 0
		}
	}

	mainType := cards.RandomType(src)
	first := cards.IntBetween(src, subStatFloor, remainder-subStatFloor)
	second := remainder - first

	var stats cards.Stats
	stats.Add(mainType, main)
	others := make([]cards.Type, 0, 2)
	for _, t := range cards.Types {
		if t != mainType {
			others = append(others, t)
		}
	}
	stats.Add(others[0], first)
	stats.Add(others[1], second)
	stats.Normalize()
	return stats, mainType
}
