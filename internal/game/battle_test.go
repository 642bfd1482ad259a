package game_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/duel"
	"github.com/cardclash/bot/internal/domain/events"
	"github.com/cardclash/bot/internal/domain/rules"
)

func strongDeck() ([]string, []*cards.Card) {
	ids := make([]string, 5)
	deck := make([]*cards.Card, 5)
	for i := range deck {
		ids[i] = fmt.Sprintf("d%d", i)
		deck[i] = common(ids[i], 220)
	}
	return ids, deck
}

func TestService_BattleWinPaysReward(t *testing.T) {
	f, svc := newService(t, cards.NewScripted(0))
	ids, deck := strongDeck()

	f.users.EXPECT().Get(gomock.Any(), "u1").Return(wallet(100), nil)
	f.cards.EXPECT().GetByIDs(gomock.Any(), ids).Return(deck, nil)
	f.users.EXPECT().UpdateBalance(gomock.Any(), "u1", int64(150)).Return(nil)

	report, err := svc.Battle(context.Background(), "u1", ids)
	require.NoError(t, err)
	assert.True(t, report.Won())
	assert.Equal(t, 3, report.Match.PlayerWins)
	assert.Equal(t, 0, report.Match.EnemyWins)
	assert.Len(t, report.Match.History, 3)
	assert.Equal(t, int64(50), report.Reward)
	assert.Equal(t, int64(150), report.Balance)

	for _, c := range report.Match.EnemyDeck {
		assert.Equal(t, "ai", c.OwnerID)
	}

	assert.Equal(t, []events.Event{events.MatchFinished{
		UserID: "u1", Winner: duel.Player, PlayerWins: 3,
	}}, f.events())
}

func TestService_BattleDeckRules(t *testing.T) {
	_, svc := newService(t, cards.NewScripted(0))

	_, err := svc.Battle(context.Background(), "u1", []string{"a", "b", "c"})
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)

	_, err = svc.Battle(context.Background(), "u1", []string{"a", "b", "c", "d", "a"})
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
	assert.Equal(t, "each deck card must be different", rules.Reason(err))
}

func TestService_BattlePlaysChosenHiddenCard(t *testing.T) {
	f, svc := newService(t, cards.NewScripted(0))
	ids, deck := strongDeck()

	f.users.EXPECT().Get(gomock.Any(), "u1").Return(wallet(100), nil)
	f.cards.EXPECT().GetByIDs(gomock.Any(), ids).Return(deck, nil)
	f.users.EXPECT().UpdateBalance(gomock.Any(), "u1", int64(150)).Return(nil)

	report, err := svc.Battle(context.Background(), "u1", ids, 3)
	require.NoError(t, err)
	require.Len(t, report.Match.History, 3)
	assert.True(t, report.Match.History[1].Hidden)
	assert.Equal(t, 3, report.Match.History[1].PlayerHiddenIndex)
}

func TestService_BattleHiddenRules(t *testing.T) {
	_, svc := newService(t, cards.NewScripted(0))
	ids, _ := strongDeck()

	_, err := svc.Battle(context.Background(), "u1", ids, 2, 4, 4)
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
	assert.Equal(t, "a match only has 2 hidden rounds", rules.Reason(err))

	_, err = svc.Battle(context.Background(), "u1", ids, 5)
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
	assert.Equal(t, "deck slot 6 does not exist", rules.Reason(err))
}

func TestService_BattleRejectsIneligibleHiddenCard(t *testing.T) {
	f, svc := newService(t, cards.NewScripted(0))
	ids, deck := strongDeck()

	f.users.EXPECT().Get(gomock.Any(), "u1").Return(wallet(100), nil)
	f.cards.EXPECT().GetByIDs(gomock.Any(), ids).Return(deck, nil)

	_, err := svc.Battle(context.Background(), "u1", ids, 0)
	require.ErrorIs(t, err, rules.ErrInvalidMaterials)
	assert.Equal(t, "slot 1 cannot be played as the hidden card this round", rules.Reason(err))
}
