package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/rules"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		userFacing bool
		want       string
	}{
		{
			name:       "rejection",
			err:        fmt.Errorf("fuse: %w", rules.Insufficient(300, 120)),
			userFacing: true,
			want:       "you need 300 credits but only have 120",
		},
		{
			name:       "empty collection",
			err:        fmt.Errorf("list: %w", cards.ErrNoCards),
			userFacing: true,
			want:       "No cards found.",
		},
		{
			name: "fault",
			err:  errors.New("connection reset"),
			want: "Something went wrong. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.userFacing, IsUserFacing(tt.err))
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}
