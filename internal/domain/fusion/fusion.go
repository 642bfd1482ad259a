package fusion

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/rules"
)

// Outcome is the result of a successful fusion. Consumed lists the material
// IDs the caller must remove from the collection.
type Outcome struct {
	Card     *cards.Card
	Consumed []string
	Cost     int64
	Balance  int64
}

// Preview describes what a fusion of the given materials would produce. The
// stat range is the same one Fuse draws from.
type Preview struct {
	From  cards.Rarity
	To    cards.Rarity
	Cost  int64
	Stat  cards.Range
	Power cards.Range
}

type Engine struct {
	templates generator.Templates
	src       cards.Source
	costs     map[cards.Rarity]int64
	newID     func() string
	now       func() time.Time
}

type Option func(*Engine)

// WithCosts overrides the fusion cost of individual rarities. A cost of zero
// or less marks the rarity as not fusable.
func WithCosts(costs map[cards.Rarity]int64) Option {
	return func(e *Engine) {
		for r, c := range costs {
			e.costs[r] = c
		}
	}
}

func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

func NewEngine(templates generator.Templates, src cards.Source, opts ...Option) *Engine {
	e := &Engine{
		templates: templates,
		src:       src,
		costs:     make(map[cards.Rarity]int64, len(cards.Rarities)),
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
	for _, r := range cards.Rarities {
		e.costs[r] = cards.FusionCost(r)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cost is the fusion price for materials of rarity r, or 0 when r cannot be
// fused.
func (e *Engine) Cost(r cards.Rarity) int64 {
	return e.costs[r]
}

// CanFuse checks every precondition and returns the output rarity and cost.
func (e *Engine) CanFuse(materials []*cards.Card, balance int64) (cards.Rarity, int64, error) {
	_, to, cost, err := e.validate(materials)
	if err != nil {
		return 0, 0, err
	}
	if balance < cost {
		return 0, 0, rules.Insufficient(cost, balance)
	}
	return to, cost, nil
}

// Preview validates the material set without looking at the balance.
func (e *Engine) Preview(materials []*cards.Card) (Preview, error) {
	from, to, cost, err := e.validate(materials)
	if err != nil {
		return Preview{}, err
	}
	stat := cards.StatRange(to)
	return Preview{
		From:  from,
		To:    to,
		Cost:  cost,
		Stat:  stat,
		Power: cards.Range{Min: 3 * stat.Min, Max: 3 * stat.Max},
	}, nil
}

// Fuse consumes three materials and produces one card of the next rarity.
// Draw order: efficiency, creativity, function, type coin, (random type),
// template.
func (e *Engine) Fuse(ownerID string, materials []*cards.Card, balance int64) (Outcome, error) {
	to, cost, err := e.CanFuse(materials, balance)
	if err != nil {
		return Outcome{}, err
	}

	stat := cards.StatRange(to)
	stats := cards.Stats{
		Efficiency: cards.IntBetween(e.src, stat.Min, stat.Max),
		Creativity: cards.IntBetween(e.src, stat.Min, stat.Max),
		Function:   cards.IntBetween(e.src, stat.Min, stat.Max),
	}
	stats.Normalize()

	typ := stats.Highest()
	if e.src.Float64() >= 0.5 {
		typ = cards.RandomType(e.src)
	}

	first := materials[0]
	card := &cards.Card{
		ID:         e.newID(),
		TemplateID: first.TemplateID,
		OwnerID:    ownerID,
		Name:       first.Name,
		Faction:    first.Faction,
		Rarity:     to,
		Type:       typ,
		Stats:      stats,
		Level:      1,
		Experience: 0,
		CreatedAt:  e.now(),
	}
	if tpls := e.byRarity(to); len(tpls) > 0 {
		tpl := tpls[cards.Pick(e.src, len(tpls))]
		card.TemplateID = tpl.ID
		card.Name = tpl.Name
		card.Faction = tpl.Faction
	}
	if first.SpecialSkill != nil {
		skill := *first.SpecialSkill
		card.SpecialSkill = &skill
	}

	consumed := make([]string, len(materials))
	for i, m := range materials {
		consumed[i] = m.ID
	}

	return Outcome{
		Card:     card,
		Consumed: consumed,
		Cost:     cost,
		Balance:  balance - cost,
	}, nil
}

func (e *Engine) byRarity(r cards.Rarity) []cards.Template {
	if e.templates == nil {
		return nil
	}
	return e.templates.ByRarity(r)
}

func (e *Engine) validate(materials []*cards.Card) (from, to cards.Rarity, cost int64, err error) {
	if len(materials) != cards.FusionMaterials {
		return 0, 0, 0, rules.Reject(rules.InvalidMaterials, "fusion needs exactly %d cards, got %d", cards.FusionMaterials, len(materials))
	}

	seen := make(map[string]struct{}, len(materials))
	from = materials[0].Rarity
	for _, m := range materials {
		if _, dup := seen[m.ID]; dup {
			return 0, 0, 0, rules.Reject(rules.InvalidMaterials, "card %s was selected more than once", m.ID)
		}
		seen[m.ID] = struct{}{}

		switch {
		case m.IsLocked:
			return 0, 0, 0, rules.Reject(rules.InvalidMaterials, "%s is locked", m.Name)
		case m.Level != 1:
			return 0, 0, 0, rules.Reject(rules.InvalidMaterials, "%s has been enhanced and cannot be fused", m.Name)
		case m.Rarity != from:
			return 0, 0, 0, rules.Reject(rules.InvalidMaterials, "all fusion materials must share one rarity")
		}
	}

	next, ok := from.Next()
	cost = e.costs[from]
	if !ok || cost <= 0 {
		return 0, 0, 0, rules.Reject(rules.InvalidTransition, "%s cards cannot be fused", from)
	}
	return from, next, cost, nil
}
