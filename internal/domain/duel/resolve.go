package duel

import (
	"github.com/cardclash/bot/internal/domain/cards"
)

type Winner string

const (
	Player Winner = "player"
	Enemy  Winner = "enemy"
	Draw   Winner = "draw"
)

// EffectKind labels a power contribution in a duel breakdown.
type EffectKind string

const (
	EffectSkill     EffectKind = "skill"
	EffectTeam      EffectKind = "team"
	EffectSynergy   EffectKind = "synergy"
	EffectCommander EffectKind = "commander"
	EffectAdvantage EffectKind = "advantage"
)

type Effect struct {
	Side   Winner
	Kind   EffectKind
	Name   string
	Amount float64
}

type Result struct {
	Winner          Winner
	PlayerPower     float64
	EnemyPower      float64
	PlayerAdvantage bool
	EnemyAdvantage  bool
	Effects         []Effect
}

const (
	synergyThreshold = 3
	synergyRate      = 0.10
)

// CommanderBonus is the reserved hook for commander auras. The default
// always returns zero.
type CommanderBonus func(card *cards.Card, deck []*cards.Card) float64

type Resolver struct {
	registry  *Registry
	commander CommanderBonus
}

type Option func(*Resolver)

func WithCommanderBonus(fn CommanderBonus) Option {
	return func(r *Resolver) { r.commander = fn }
}

func NewResolver(registry *Registry, opts ...Option) *Resolver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	r := &Resolver{
		registry:  registry,
		commander: func(*cards.Card, []*cards.Card) float64 { return 0 },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveSingle duels two cards. Each side's power is its base stat sum plus
// skill, team, synergy and commander bonuses, multiplied by 1.3 when its type
// beats the other's. The strictly higher power wins; equal power is a draw
// and the caller decides how to break it.
func (r *Resolver) ResolveSingle(player, enemy *cards.Card, playerDeck, enemyDeck []*cards.Card) Result {
	var res Result

	res.PlayerPower = r.sidePower(Player, player, enemy, playerDeck, &res.Effects)
	res.EnemyPower = r.sidePower(Enemy, enemy, player, enemyDeck, &res.Effects)

	if cards.HasAdvantage(player.Type, enemy.Type) {
		res.PlayerAdvantage = true
		res.Effects = append(res.Effects, Effect{Side: Player, Kind: EffectAdvantage, Amount: res.PlayerPower * (cards.AdvantageMultiplier - 1)})
		res.PlayerPower *= cards.AdvantageMultiplier
	}
	if cards.HasAdvantage(enemy.Type, player.Type) {
		res.EnemyAdvantage = true
		res.Effects = append(res.Effects, Effect{Side: Enemy, Kind: EffectAdvantage, Amount: res.EnemyPower * (cards.AdvantageMultiplier - 1)})
		res.EnemyPower *= cards.AdvantageMultiplier
	}

	switch {
	case res.PlayerPower > res.EnemyPower:
		res.Winner = Player
	case res.EnemyPower > res.PlayerPower:
		res.Winner = Enemy
	default:
		res.Winner = Draw
	}
	return res
}

func (r *Resolver) sidePower(side Winner, card, opponent *cards.Card, deck []*cards.Card, effects *[]Effect) float64 {
	base := float64(card.BasePower())
	ctx := Context{Card: card, Deck: deck, Opponent: opponent}

	note := func(kind EffectKind, name string, amount float64) {
		if effects != nil && amount != 0 {
			*effects = append(*effects, Effect{Side: side, Kind: kind, Name: name, Amount: amount})
		}
	}

	skill, name := r.registry.SkillBonus(ctx)
	note(EffectSkill, name, skill)

	team := r.registry.TeamBonus(ctx)
	note(EffectTeam, "", team)

	synergy := SynergyBonus(card, deck)
	note(EffectSynergy, "", synergy)

	commander := r.commander(card, deck)
	note(EffectCommander, "", commander)

	return base + skill + team + synergy + commander
}

// SynergyBonus grants +10% of base power for each type that appears at
// least three times in the deck.
func SynergyBonus(card *cards.Card, deck []*cards.Card) float64 {
	counts := make(map[cards.Type]int, len(cards.Types))
	for _, c := range deck {
		counts[c.Type]++
	}
	stacks := 0
	for _, t := range cards.Types {
		if counts[t] >= synergyThreshold {
			stacks++
		}
	}
	return float64(stacks) * synergyRate * float64(card.BasePower())
}
