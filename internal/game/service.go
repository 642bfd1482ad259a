package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/events"
	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/domain/users"
)

//go:generate mockgen -destination=mock/transactor.go -package=mock . Transactor

// Transactor runs fn atomically. Repositories called with the ctx handed to
// fn take part in the transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Catalog is the template catalog as the services use it.
type Catalog interface {
	generator.Templates
	ByID(id string) (cards.Template, bool)
	HasFaction(faction string) bool
	Factions() []string
}

type Config struct {
	StartingBalance     int64
	BattleReward        int64
	FusionCosts         map[cards.Rarity]int64
	EnhanceCostPerLevel int64
	Trend               *generator.Trend
}

type Service struct {
	cfg       Config
	tx        Transactor
	cards     cards.Repository
	users     users.Repository
	subs      subscription.Repository
	catalog   Catalog
	scheduler *subscription.Scheduler
	events    events.Publisher
	locks     *Locks
	src       cards.Source
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

// WithSource replaces the random source. Tests pass a scripted one.
func WithSource(src cards.Source) Option {
	return func(s *Service) { s.src = src }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func New(
	cfg Config,
	tx Transactor,
	cardRepo cards.Repository,
	userRepo users.Repository,
	subRepo subscription.Repository,
	catalog Catalog,
	scheduler *subscription.Scheduler,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:       cfg,
		tx:        tx,
		cards:     cardRepo,
		users:     userRepo,
		subs:      subRepo,
		catalog:   catalog,
		scheduler: scheduler,
		events:    events.Discard{},
		locks:     NewLocks(),
		src:       cards.NewSource(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.src = &lockedSource{src: s.src}
	return s
}

func (s *Service) Scheduler() *subscription.Scheduler {
	return s.scheduler
}

// user loads the player's wallet, creating it with the starting balance on
// first use.
func (s *Service) user(ctx context.Context, userID string) (*users.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	now := s.now()
	u = &users.User{ID: userID, Balance: s.cfg.StartingBalance, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", userID, err)
	}
	slog.Info("New player registered",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.Int64("balance", u.Balance))
	return u, nil
}

// Balance returns the player's credits.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

// publish runs after commit; handler failures never undo the operation.
func (s *Service) publish(ctx context.Context, evs ...events.Event) {
	for _, e := range evs {
		if err := s.events.Publish(ctx, e); err != nil {
			slog.Warn("Event handler failed",
				slog.String("type", "sys"),
				slog.String("event", string(e.Kind())),
				slog.Any("error", err))
		}
	}
}

// owned loads cards by id and checks they all belong to userID.
func (s *Service) owned(ctx context.Context, userID string, ids []string) ([]*cards.Card, error) {
	list, err := s.cards.GetByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, cards.ErrNoCards) {
			return nil, ErrNotOwned
		}
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	for _, c := range list {
		if c.OwnerID != userID {
			return nil, ErrNotOwned
		}
	}
	return list, nil
}
