package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/duel"
)

type Kind string

const (
	KindCardGenerated      Kind = "card_generated"
	KindCardsFused         Kind = "cards_fused"
	KindCardEnhanced       Kind = "card_enhanced"
	KindCardTrained        Kind = "card_trained"
	KindMatchFinished      Kind = "match_finished"
	KindSubscriptionBilled Kind = "subscription_billed"
)

type Event interface {
	Kind() Kind
}

type CardGenerated struct {
	UserID    string
	FactionID string
	Card      *cards.Card
	At        time.Time
}

func (CardGenerated) Kind() Kind { return KindCardGenerated }

type CardsFused struct {
	UserID   string
	Consumed []string
	Result   *cards.Card
	Cost     int64
}

func (CardsFused) Kind() Kind { return KindCardsFused }

type CardEnhanced struct {
	UserID   string
	Card     *cards.Card
	Consumed []string
	Cost     int64
	Success  bool
}

func (CardEnhanced) Kind() Kind { return KindCardEnhanced }

type CardTrained struct {
	UserID  string
	Card    *cards.Card
	StatUps int
}

func (CardTrained) Kind() Kind { return KindCardTrained }

type MatchFinished struct {
	UserID     string
	Winner     duel.Winner
	PlayerWins int
	EnemyWins  int
}

func (MatchFinished) Kind() Kind { return KindMatchFinished }

type SubscriptionBilled struct {
	UserID    string
	FactionID string
	Days      int
	Charged   int64
}

func (SubscriptionBilled) Kind() Kind { return KindSubscriptionBilled }

type Handler func(ctx context.Context, e Event) error

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus is a synchronous in-process publisher. Handlers run in registration
// order on the publishing goroutine; a failing handler does not stop the
// others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers h for one kind of event.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.all)+len(b.handlers[e.Kind()]))
	handlers = append(handlers, b.handlers[e.Kind()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
