package enhance

import (
	"math"

	"github.com/cardclash/bot/internal/domain/cards"
)

const (
	baseTrainingExp = 100
	trainingDecay   = 0.8
	expPerLevel     = 100
)

// TrainingResult reports what a training session gave the card.
type TrainingResult struct {
	Card      *cards.Card
	ExpGained int
	// StatUps lists the stat raised for each threshold crossed, in order.
	StatUps []cards.Type
}

// TrainingExp is the experience one session yields at the given level:
// 100 × 0.8^(level-1), floored.
func TrainingExp(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(baseTrainingExp * math.Pow(trainingDecay, float64(level-1))))
}

// ExpRequired is the experience needed for the next stat point.
func ExpRequired(level int) int {
	if level < 1 {
		level = 1
	}
	return expPerLevel * level
}

// Train grants one session of experience. Every time experience reaches the
// requirement the highest stat gains a point and the overflow carries over.
// Level is only raised by Enhance.
func Train(card *cards.Card) TrainingResult {
	out := TrainingResult{Card: card.Clone(), ExpGained: TrainingExp(card.Level)}
	c := out.Card

	c.Experience += out.ExpGained
	need := ExpRequired(c.Level)
	for c.Experience >= need {
		c.Experience -= need
		t := c.Stats.Highest()
		c.Stats.Add(t, 1)
		out.StatUps = append(out.StatUps, t)
	}
	c.Stats.Normalize()
	return out
}
