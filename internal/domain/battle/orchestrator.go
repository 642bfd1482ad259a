package battle

import (
	"slices"

	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/rules"
)

// Orchestrator sequences rounds of a Match through the duel resolver.
//
// Draw policy: a drawn duel (normal round or either sub-duel of a hidden
// round) counts as a player win. A full tie after five rounds goes to
// TieBreak, which defaults to the player for the same reason. With draws
// resolved per duel every round has a winner, so over five rounds the tie
// branch is unreachable unless rounds are skipped.
type Orchestrator struct {
	resolver *duel.Resolver
	enemyAI  HiddenChooser
	TieBreak duel.Winner
}

func NewOrchestrator(resolver *duel.Resolver, enemyAI HiddenChooser) *Orchestrator {
	if resolver == nil {
		resolver = duel.NewResolver(nil)
	}
	if enemyAI == nil {
		enemyAI = AIChooser{}
	}
	return &Orchestrator{resolver: resolver, enemyAI: enemyAI, TieBreak: duel.Player}
}

// PlayRound plays the next round. playerHidden is the player's hidden-card
// index and is ignored on normal rounds.
func (o *Orchestrator) PlayRound(m *Match, playerHidden int) (RoundResult, error) {
	if m.Finished {
		return RoundResult{}, rules.Reject(rules.InvalidTransition, "the match is already over")
	}

	n := m.RoundNumber()
	mainIdx := m.CurrentRoundIndex
	res := RoundResult{Number: n, PlayerHiddenIndex: -1, EnemyHiddenIndex: -1}

	res.Main = o.resolver.ResolveSingle(m.PlayerDeck[mainIdx], m.EnemyDeck[mainIdx], m.PlayerDeck, m.EnemyDeck)
	mainWinner := breakDraw(res.Main.Winner)

	if !IsHiddenRound(n) {
		res.Winner = mainWinner
		m.record(res, o.TieBreak)
		return res, nil
	}

	pool := m.HiddenPool()
	if !slices.Contains(pool, playerHidden) {
		return RoundResult{}, rules.Reject(rules.InvalidMaterials, "slot %d cannot be played as the hidden card this round", playerHidden+1)
	}
	enemyHidden := o.enemyAI.ChooseHidden(m.EnemyDeck, pool, mainIdx, m.EnemyWins < m.PlayerWins)
	if !slices.Contains(pool, enemyHidden) {
		enemyHidden = pool[0]
	}

	hidden := o.resolver.ResolveSingle(m.PlayerDeck[playerHidden], m.EnemyDeck[enemyHidden], m.PlayerDeck, m.EnemyDeck)
	res.Hidden = true
	res.HiddenDuel = &hidden
	res.PlayerHiddenIndex = playerHidden
	res.EnemyHiddenIndex = enemyHidden
	res.Winner = hiddenRoundWinner(mainWinner, breakDraw(hidden.Winner))

	m.record(res, o.TieBreak)
	return res, nil
}

// PlayAll plays the match to completion, asking playerAI for the player's
// hidden cards.
func (o *Orchestrator) PlayAll(m *Match, playerAI HiddenChooser) error {
	if playerAI == nil {
		playerAI = StrongestChooser{}
	}
	for !m.Finished {
		hidden := -1
		if IsHiddenRound(m.RoundNumber()) {
			hidden = playerAI.ChooseHidden(m.PlayerDeck, m.HiddenPool(), m.CurrentRoundIndex, m.PlayerWins < m.EnemyWins)
		}
		if _, err := o.PlayRound(m, hidden); err != nil {
			return err
		}
	}
	return nil
}

func breakDraw(w duel.Winner) duel.Winner {
	if w == duel.Draw {
		return duel.Player
	}
	return w
}

// hiddenRoundWinner: winning both sub-duels wins the round and a 1-1 split
// goes to whoever took the main duel. Either way the main duel settles it;
// the hidden duel only matters for the round breakdown.
func hiddenRoundWinner(main, hidden duel.Winner) duel.Winner {
	if hidden == main {
		return hidden
	}
	return main
}
