package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardclash/bot/internal/domain/cards"
)

func TestTrainingExp(t *testing.T) {
	assert.Equal(t, 100, TrainingExp(1))
	assert.Equal(t, 80, TrainingExp(2))
	assert.Equal(t, 64, TrainingExp(3))
	assert.Equal(t, 51, TrainingExp(4))
	assert.Equal(t, 100, TrainingExp(0))
	assert.Equal(t, 300, ExpRequired(3))
}

func TestTrain(t *testing.T) {
	t.Run("level one crosses the threshold every session", func(t *testing.T) {
		c := target(1)
		c.Experience = 0

		out := Train(c)
		assert.Equal(t, 100, out.ExpGained)
		assert.Equal(t, []cards.Type{cards.Efficiency}, out.StatUps)
		assert.Equal(t, 21, out.Card.Stats.Efficiency)
		assert.Equal(t, 46, out.Card.Stats.TotalPower)
		assert.Zero(t, out.Card.Experience)
		assert.Equal(t, 1, out.Card.Level)
	})

	t.Run("overflow carries over", func(t *testing.T) {
		c := target(3)
		c.Experience = 250

		out := Train(c)
		assert.Equal(t, 64, out.ExpGained)
		assert.Len(t, out.StatUps, 1)
		assert.Equal(t, 14, out.Card.Experience)
		assert.Equal(t, 250, c.Experience, "input is not mutated")
	})

	t.Run("below threshold only accumulates", func(t *testing.T) {
		c := target(5)
		c.Experience = 0

		out := Train(c)
		assert.Empty(t, out.StatUps)
		assert.Equal(t, TrainingExp(5), out.Card.Experience)
		assert.Equal(t, c.Stats, out.Card.Stats)
	})
}
