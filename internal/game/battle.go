package game

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cardclash/bot/internal/domain/battle"
	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/events"
	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/rules"
	"github.com/cardclash/bot/internal/domain/users"
)

const enemyOwner = "ai"

type BattleReport struct {
	Match   *battle.Match
	Reward  int64
	Balance int64
}

func (r BattleReport) Won() bool {
	return r.Match.Winner == duel.Player
}

// Battle plays a full match of the player's deck against a freshly rolled
// enemy deck. hidden lists the deck slots the player plays face down, one per
// hidden round in order; rounds without a pick play the strongest eligible
// card. Winning pays BattleReward.
func (s *Service) Battle(ctx context.Context, userID string, deckIDs []string, hidden ...int) (BattleReport, error) {
	if len(deckIDs) != battle.DeckSize {
		return BattleReport{}, rules.Reject(rules.InvalidMaterials, "pick exactly %d cards for your deck", battle.DeckSize)
	}
	if len(hidden) > battle.HiddenRounds() {
		return BattleReport{}, rules.Reject(rules.InvalidMaterials, "a match only has %d hidden rounds", battle.HiddenRounds())
	}
	for _, slot := range hidden {
		if slot < 0 || slot >= battle.DeckSize {
			return BattleReport{}, rules.Reject(rules.InvalidMaterials, "deck slot %d does not exist", slot+1)
		}
	}
	seen := make(map[string]struct{}, len(deckIDs))
	for _, id := range deckIDs {
		if _, dup := seen[id]; dup {
			return BattleReport{}, rules.Reject(rules.InvalidMaterials, "each deck card must be different")
		}
		seen[id] = struct{}{}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var (
		u    *users.User
		deck []*cards.Card
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = s.user(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		deck, err = s.owned(gctx, userID, deckIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return BattleReport{}, err
	}

	enemy, err := s.enemyDeck()
	if err != nil {
		return BattleReport{}, err
	}

	m, err := battle.NewMatch(deck, enemy)
	if err != nil {
		return BattleReport{}, err
	}
	if err := battle.NewOrchestrator(nil, nil).PlayAll(m, &battle.PlannedChooser{Picks: hidden}); err != nil {
		if rules.IsRejection(err) {
			return BattleReport{}, err
		}
		return BattleReport{}, fmt.Errorf("failed to play match: %w", err)
	}

	report := BattleReport{Match: m, Balance: u.Balance}
	if report.Won() && s.cfg.BattleReward > 0 {
		u.Credit(s.cfg.BattleReward)
		if err := s.users.UpdateBalance(ctx, userID, u.Balance); err != nil {
			return BattleReport{}, fmt.Errorf("failed to pay battle reward: %w", err)
		}
		report.Reward = s.cfg.BattleReward
		report.Balance = u.Balance
	}

	slog.Info("Battle finished",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("winner", string(m.Winner)),
		slog.Int("player_wins", m.PlayerWins),
		slog.Int("enemy_wins", m.EnemyWins))

	s.publish(ctx, events.MatchFinished{
		UserID:     userID,
		Winner:     m.Winner,
		PlayerWins: m.PlayerWins,
		EnemyWins:  m.EnemyWins,
	})
	return report, nil
}

// enemyDeck rolls five cards from the base rarity table.
func (s *Service) enemyDeck() ([]*cards.Card, error) {
	var opts []generator.Option
	opts = append(opts, generator.WithClock(s.now))
	if s.newID != nil {
		opts = append(opts, generator.WithIDFunc(s.newID))
	}
	gen := generator.New(s.catalog, s.src, opts...)
	profile := generator.BuildProfile(generator.ProfileInput{})

	deck := make([]*cards.Card, 0, battle.DeckSize)
	for i := 0; i < battle.DeckSize; i++ {
		c, err := gen.Generate(enemyOwner, profile, generator.Bonuses{})
		if err != nil {
			return nil, fmt.Errorf("failed to roll enemy deck: %w", err)
		}
		deck = append(deck, c)
	}
	return deck, nil
}
