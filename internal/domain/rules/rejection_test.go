package rules

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectionMatchesSentinel(t *testing.T) {
	err := Insufficient(150, 20)

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.False(t, errors.Is(err, ErrInvalidMaterials))
	assert.Equal(t, "you need 150 credits but only have 20", err.Error())
}

func TestReasonSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("fuse: %w", Reject(InvalidMaterials, "exactly %d cards are required", 3))

	assert.True(t, IsRejection(err))
	assert.True(t, errors.Is(err, ErrInvalidMaterials))
	assert.Equal(t, "exactly 3 cards are required", Reason(err))
	assert.Empty(t, Reason(errors.New("boom")))
	assert.False(t, IsRejection(errors.New("boom")))
}
