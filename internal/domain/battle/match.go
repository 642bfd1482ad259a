package battle

import (
	"slices"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/rules"
)

const (
	DeckSize   = 5
	Rounds     = 5
	WinsNeeded = 3
)

// IsHiddenRound reports whether round n (1-based) is a hidden-card round.
func IsHiddenRound(n int) bool {
	return n == 2 || n == 4
}

type RoundResult struct {
	Number int
	Hidden bool
	Main   duel.Result
	// HiddenDuel is nil for normal rounds.
	HiddenDuel        *duel.Result
	PlayerHiddenIndex int
	EnemyHiddenIndex  int
	Winner            duel.Winner
}

// Match is the state of a best-of-five battle. Round n plays the main cards
// at index n-1 of both decks.
type Match struct {
	PlayerDeck        []*cards.Card
	EnemyDeck         []*cards.Card
	CurrentRoundIndex int
	PlayerWins        int
	EnemyWins         int
	UsedMainIndices   []int
	Finished          bool
	Winner            duel.Winner
	History           []RoundResult
}

func NewMatch(playerDeck, enemyDeck []*cards.Card) (*Match, error) {
	if len(playerDeck) != DeckSize || len(enemyDeck) != DeckSize {
		return nil, rules.Reject(rules.InvalidMaterials, "both decks need exactly %d cards", DeckSize)
	}
	return &Match{
		PlayerDeck: playerDeck,
		EnemyDeck:  enemyDeck,
	}, nil
}

// RoundNumber is the 1-based number of the next round to play.
func (m *Match) RoundNumber() int {
	return m.CurrentRoundIndex + 1
}

// HiddenPool lists deck indices eligible as the hidden card this round:
// every slot except the current main index and previously used main indices.
func (m *Match) HiddenPool() []int {
	main := m.CurrentRoundIndex
	pool := make([]int, 0, DeckSize)
	for i := 0; i < DeckSize; i++ {
		if i == main || slices.Contains(m.UsedMainIndices, i) {
			continue
		}
		pool = append(pool, i)
	}
	return pool
}

func (m *Match) record(res RoundResult, tieBreak duel.Winner) {
	switch res.Winner {
	case duel.Player:
		m.PlayerWins++
	case duel.Enemy:
		m.EnemyWins++
	}
	m.History = append(m.History, res)
	m.UsedMainIndices = append(m.UsedMainIndices, m.CurrentRoundIndex)
	m.CurrentRoundIndex++

	switch {
	case m.PlayerWins >= WinsNeeded:
		m.finish(duel.Player)
	case m.EnemyWins >= WinsNeeded:
		m.finish(duel.Enemy)
	case m.CurrentRoundIndex >= Rounds:
		switch {
		case m.PlayerWins > m.EnemyWins:
			m.finish(duel.Player)
		case m.EnemyWins > m.PlayerWins:
			m.finish(duel.Enemy)
		default:
			m.finish(tieBreak)
		}
	}
}

func (m *Match) finish(w duel.Winner) {
	m.Finished = true
	m.Winner = w
}
