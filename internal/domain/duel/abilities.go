package duel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cardclash/bot/internal/domain/cards"
)

// AbilityID identifies a special skill. Stored skills are matched by name and
// converted once, at lookup time, into an ID.
type AbilityID string

const (
	AbilityOverclock   AbilityID = "overclock"
	AbilityRallyCry    AbilityID = "rally_cry"
	AbilityMuse        AbilityID = "muse"
	AbilityInspiration AbilityID = "inspiration"
	AbilityUnderdog    AbilityID = "underdog"
	AbilityKinship     AbilityID = "kinship"
)

// Context is what an ability may inspect: its bearer, the bearer's deck
// (which includes the bearer) and the opposing card.
type Context struct {
	Card     *cards.Card
	Deck     []*cards.Card
	Opponent *cards.Card
}

// Ability holds the bonus formulas of one special skill. Bonus is added to
// the bearer's power; Team, when set, is added to every other card in the
// bearer's deck.
type Ability struct {
	ID    AbilityID
	Name  string
	Bonus func(ctx Context) float64
	Team  func(bearer *cards.Card, ctx Context) float64
}

// Registry is the open table of abilities. New skills are new entries.
type Registry struct {
	mu        sync.RWMutex
	abilities map[AbilityID]Ability
}

func NewRegistry() *Registry {
	return &Registry{abilities: make(map[AbilityID]Ability)}
}

func (r *Registry) Register(a Ability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return fmt.Errorf("ability ID cannot be empty")
	}
	if _, exists := r.abilities[a.ID]; exists {
		return fmt.Errorf("ability %s is already registered", a.ID)
	}
	r.abilities[a.ID] = a
	return nil
}

// Lookup resolves a stored skill to its ability. Unknown or absent skills
// report false and contribute nothing.
func (r *Registry) Lookup(skill *cards.SpecialSkill) (Ability, bool) {
	if skill == nil {
		return Ability{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.abilities[AbilityKey(skill.Name)]
	return a, ok
}

// AbilityKey normalises a display name such as "Rally Cry" into an AbilityID.
func AbilityKey(name string) AbilityID {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return AbilityID(key)
}

// SkillBonus is the bearer's own special-skill bonus.
func (r *Registry) SkillBonus(ctx Context) (float64, string) {
	a, ok := r.Lookup(ctx.Card.SpecialSkill)
	if !ok || a.Bonus == nil {
		return 0, ""
	}
	return a.Bonus(ctx), a.Name
}

// TeamBonus sums the team contributions of every other deck card's skill.
func (r *Registry) TeamBonus(ctx Context) float64 {
	var total float64
	for _, mate := range ctx.Deck {
		if sameCard(mate, ctx.Card) {
			continue
		}
		a, ok := r.Lookup(mate.SpecialSkill)
		if !ok || a.Team == nil {
			continue
		}
		total += a.Team(mate, ctx)
	}
	return total
}

// DefaultRegistry returns the built-in skill set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range builtinAbilities() {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}

func builtinAbilities() []Ability {
	return []Ability{
		{
			ID:   AbilityOverclock,
			Name: "Overclock",
			Bonus: func(ctx Context) float64 {
				return 0.10 * float64(ctx.Card.BasePower())
			},
		},
		{
			ID:   AbilityRallyCry,
			Name: "Rally Cry",
			Bonus: func(ctx Context) float64 {
				return 0.20 * float64(ctx.Card.BasePower())
			},
			Team: func(_ *cards.Card, ctx Context) float64 {
				return 0.05 * float64(ctx.Card.BasePower())
			},
		},
		{
			ID:   AbilityMuse,
			Name: "Muse",
			Bonus: func(ctx Context) float64 {
				for _, mate := range ctx.Deck {
					if !sameCard(mate, ctx.Card) && mate.Type == cards.Creativity {
						return 0.25 * float64(ctx.Card.BasePower())
					}
				}
				return 0
			},
		},
		{
			ID:   AbilityInspiration,
			Name: "Inspiration",
			Bonus: func(ctx Context) float64 {
				return 0.30 * float64(ctx.Card.Stats.Creativity)
			},
		},
		{
			ID:   AbilityUnderdog,
			Name: "Underdog",
			Bonus: func(ctx Context) float64 {
				if ctx.Opponent != nil && ctx.Opponent.BasePower() > ctx.Card.BasePower() {
					return 0.20 * float64(ctx.Card.BasePower())
				}
				return 0
			},
		},
		{
			ID:   AbilityKinship,
			Name: "Kinship",
			Bonus: func(ctx Context) float64 {
				mates := 0
				for _, mate := range ctx.Deck {
					if !sameCard(mate, ctx.Card) && mate.Type == ctx.Card.Type {
						mates++
					}
				}
				return 0.05 * float64(mates) * float64(ctx.Card.BasePower())
			},
		},
	}
}

func sameCard(a, b *cards.Card) bool {
	if a == b {
		return true
	}
	return a != nil && b != nil && a.ID != "" && a.ID == b.ID
}
