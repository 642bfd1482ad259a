package enhance

import (
	"math"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/rules"
)

const (
	minStatGain = 1
	maxStatGain = 3
)

// Outcome is the result of an enhancement. Card is a new value; the target
// passed in is never mutated.
type Outcome struct {
	Card     *cards.Card
	Gains    cards.Stats
	Consumed []string
	Cost     int64
	Balance  int64
	Success  bool
}

type Preview struct {
	Level       int
	NextLevel   int
	Cost        int64
	MinGain     int
	MaxGain     int
	SuccessRate float64
}

type Engine struct {
	src          cards.Source
	costPerLevel int64
	// discount is the fraction knocked off the cost, in [0, 1].
	discount float64
	// failureRate is taken off the base 100% success rate, in [0, 1].
	failureRate float64
}

type Option func(*Engine)

func WithCostPerLevel(cost int64) Option {
	return func(e *Engine) {
		if cost > 0 {
			e.costPerLevel = cost
		}
	}
}

func WithDiscount(d float64) Option {
	return func(e *Engine) { e.discount = math.Max(0, math.Min(1, d)) }
}

// WithFailureRate lowers the success rate below 100%.
func WithFailureRate(f float64) Option {
	return func(e *Engine) { e.failureRate = math.Max(0, math.Min(1, f)) }
}

func NewEngine(src cards.Source, opts ...Option) *Engine {
	e := &Engine{src: src, costPerLevel: cards.EnhanceCostFactor}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cost is level times the per-level price, after discount.
func (e *Engine) Cost(level int) int64 {
	raw := float64(int64(level) * e.costPerLevel)
	return int64(math.Floor(raw * (1 - e.discount)))
}

// SuccessRate never exceeds 1.
func (e *Engine) SuccessRate() float64 {
	return 1 - e.failureRate
}

// CanEnhance checks every precondition and returns the cost.
func (e *Engine) CanEnhance(target *cards.Card, materials []*cards.Card, balance int64) (int64, error) {
	if err := validate(target, materials); err != nil {
		return 0, err
	}
	cost := e.Cost(target.Level)
	if balance < cost {
		return 0, rules.Insufficient(cost, balance)
	}
	return cost, nil
}

func (e *Engine) Preview(target *cards.Card) (Preview, error) {
	if target.Level >= cards.MaxLevel {
		return Preview{}, rules.Reject(rules.InvalidMaterials, "%s is already at max level", target.Name)
	}
	return Preview{
		Level:       target.Level,
		NextLevel:   target.Level + 1,
		Cost:        e.Cost(target.Level),
		MinGain:     minStatGain,
		MaxGain:     maxStatGain,
		SuccessRate: e.SuccessRate(),
	}, nil
}

// Enhance levels the target up once, consuming the materials and the cost.
// Each core stat grows by a uniform draw in [1, 3], drawn in efficiency,
// creativity, function order. A success roll is only drawn when the rate is
// below 1.
func (e *Engine) Enhance(target *cards.Card, materials []*cards.Card, balance int64) (Outcome, error) {
	cost, err := e.CanEnhance(target, materials, balance)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Card:     target.Clone(),
		Consumed: make([]string, len(materials)),
		Cost:     cost,
		Balance:  balance - cost,
		Success:  true,
	}
	for i, m := range materials {
		out.Consumed[i] = m.ID
	}

	if rate := e.SuccessRate(); rate < 1 && e.src.Float64() >= rate {
		out.Success = false
		return out, nil
	}

	for _, t := range cards.Types {
		gain := cards.IntBetween(e.src, minStatGain, maxStatGain)
		out.Gains.Add(t, gain)
		out.Card.Stats.Add(t, gain)
	}
	out.Gains.Normalize()
	out.Card.Stats.Normalize()
	out.Card.Level++
	out.Card.Experience = 0

	return out, nil
}

func validate(target *cards.Card, materials []*cards.Card) error {
	if target.Level >= cards.MaxLevel {
		return rules.Reject(rules.InvalidMaterials, "%s is already at max level", target.Name)
	}
	if len(materials) != cards.EnhanceMaterials {
		return rules.Reject(rules.InvalidMaterials, "enhancement needs exactly %d materials, got %d", cards.EnhanceMaterials, len(materials))
	}

	seen := make(map[string]struct{}, len(materials))
	for _, m := range materials {
		switch {
		case m.ID == target.ID:
			return rules.Reject(rules.InvalidMaterials, "%s cannot be used to enhance itself", target.Name)
		case m.TemplateID != target.TemplateID:
			return rules.Reject(rules.InvalidMaterials, "materials must be copies of %s", target.Name)
		case m.IsLocked:
			return rules.Reject(rules.InvalidMaterials, "material %s is locked", m.ID)
		}
		if _, dup := seen[m.ID]; dup {
			return rules.Reject(rules.InvalidMaterials, "material %s was selected more than once", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}
