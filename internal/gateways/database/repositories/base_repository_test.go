package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/subscription"
)

func TestBaseRepository_HandleErrorWithID(t *testing.T) {
	br := &BaseRepository{}

	assert.NoError(t, br.HandleErrorWithID("get", "card", "c1", cards.ErrNoCards, nil))

	err := br.HandleErrorWithID("get", "card", "c1", cards.ErrNoCards, sql.ErrNoRows)
	require.ErrorIs(t, err, cards.ErrNoCards)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "card with ID c1 not found", err.Error())

	boom := errors.New("connection reset")
	err = br.HandleErrorWithID("get", "card", "c1", cards.ErrNoCards, boom)
	require.ErrorIs(t, err, boom)
	assert.True(t, IsRepositoryError(err))
	assert.False(t, IsNotFound(err))
}

func TestBaseRepository_NotFoundWrapsAcrossLayers(t *testing.T) {
	br := &BaseRepository{}
	err := br.HandleErrorWithID("get", "subscription", "1/ember", subscription.ErrNotFound, sql.ErrNoRows)
	wrapped := errors.Join(errors.New("load"), err)

	assert.ErrorIs(t, wrapped, subscription.ErrNotFound)
	assert.True(t, IsNotFound(wrapped))
}

func TestBaseRepository_WithTimeout(t *testing.T) {
	br := &BaseRepository{defaultTimeout: DefaultQueryTimeout}
	ctx, cancel := br.WithTimeout(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}
