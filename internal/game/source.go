package game

import (
	"sync"

	"github.com/cardclash/bot/internal/domain/cards"
)

// lockedSource makes a single random stream safe to share between the
// command handlers and the generation ticker.
type lockedSource struct {
	mu  sync.Mutex
	src cards.Source
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}
