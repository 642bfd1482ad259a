package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/subscription"
)

func TestCard_ToDomainFoldsLegacyType(t *testing.T) {
	row := &Card{
		ID: "x", TemplateID: "t", OwnerID: "1", Name: "Old Timer",
		Rarity: int(cards.Rare), Type: "COST",
		Efficiency: 10, Creativity: 20, Function: 30, TotalPower: 999,
		Level: 0,
	}

	card, err := row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, cards.Function, card.Type)
	assert.Equal(t, 60, card.Stats.TotalPower)
	assert.Equal(t, 1, card.Level)
}

func TestCard_ToDomainRejectsBadRows(t *testing.T) {
	_, err := (&Card{ID: "x", Rarity: 42, Type: "FUNCTION"}).ToDomain()
	require.Error(t, err)

	_, err = (&Card{ID: "x", Rarity: 0, Type: "MAGIC"}).ToDomain()
	require.Error(t, err)
}

func TestCard_RoundTrip(t *testing.T) {
	in := &cards.Card{
		ID: "c", TemplateID: "t", OwnerID: "1", Name: "Nova", Faction: "stellar",
		Rarity: cards.Epic, Type: cards.Creativity, Level: 4, Experience: 12,
		Stats:        cards.Stats{Efficiency: 20, Creativity: 50, Function: 30, TotalPower: 100},
		SpecialSkill: &cards.SpecialSkill{Name: "Flare"},
		IsLocked:     true,
	}

	out, err := NewCard(in).ToDomain()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSubscription_ToDomain(t *testing.T) {
	next := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := subscription.Record{
		UserID: "1", FactionID: "ember", Tier: subscription.Pro,
		DailyCost: 20, DailyGenerationLimit: 10, GenerationInterval: time.Hour,
		GenerationsToday: 2, LastResetDate: "2024-06-01", Affinity: 40,
		SlotAssigned: true, NextGenerationAt: &next,
	}

	got, err := NewSubscription(rec).ToDomain()
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	row := NewSubscription(rec)
	row.Affinity = 250
	got, err = row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, subscription.MaxAffinity, got.Affinity)

	row.Tier = "gold"
	_, err = row.ToDomain()
	require.Error(t, err)
}
