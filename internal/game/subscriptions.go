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
	"github.com/cardclash/bot/internal/domain/rules"
	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/domain/users"
)

// Slot is a subscription as shown to its owner.
type Slot struct {
	Record subscription.Record
	Status subscription.SlotStatus
	Next   *time.Time
}

// Subscribe opens a subscription to a catalog faction, charges the first day
// and puts the faction on a generation slot.
func (s *Service) Subscribe(ctx context.Context, userID, factionID string, tier subscription.Tier) (subscription.Record, error) {
	if !s.catalog.HasFaction(factionID) {
		return subscription.Record{}, rules.Reject(rules.InvalidTransition, "there is no faction called %s", factionID)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var rec subscription.Record
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.subs.Get(ctx, userID, factionID)
		switch {
		case err == nil:
			return rules.Reject(rules.InvalidTransition, "you are already subscribed to %s", factionID)
		case !errors.Is(err, subscription.ErrNotFound):
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		u, err := s.user(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		var charged int64
		rec, charged, err = s.scheduler.Subscribe(userID, factionID, tier, u.Balance, now)
		if err != nil {
			return err
		}
		if err := u.Debit(charged); err != nil {
			return err
		}
		rec = s.scheduler.AssignSlot(rec, now)

		if err := s.subs.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		return s.users.UpdateBalance(ctx, userID, u.Balance)
	})
	if err != nil {
		return subscription.Record{}, err
	}

	slog.Info("Subscription opened",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("faction", factionID),
		slog.String("tier", string(tier)))
	return rec, nil
}

// Unsubscribe settles outstanding days, refunds per the cancellation history
// and removes the subscription.
func (s *Service) Unsubscribe(ctx context.Context, userID, factionID string) (int64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var refund int64
	var billed []events.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, rec, err := s.load(ctx, userID, factionID)
		if err != nil {
			return err
		}
		now := s.now()
		var ev events.Event
		rec, ev = s.settle(u, rec, now)
		if ev != nil {
			billed = append(billed, ev)
		}

		history, err := s.subs.GetCancellation(ctx, userID, factionID)
		if err != nil {
			return fmt.Errorf("failed to load cancellation history: %w", err)
		}
		var updated subscription.Cancellation
		refund, updated = subscription.Unsubscribe(rec, history, now)
		u.Credit(refund)

		if err := s.subs.Delete(ctx, userID, factionID); err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		if err := s.subs.SaveCancellation(ctx, updated); err != nil {
			return fmt.Errorf("failed to save cancellation history: %w", err)
		}
		return s.users.UpdateBalance(ctx, userID, u.Balance)
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, billed...)
	return refund, nil
}

// ChangeTier moves a subscription to another tier after settling it.
func (s *Service) ChangeTier(ctx context.Context, userID, factionID string, to subscription.Tier) (subscription.TierChange, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var change subscription.TierChange
	var billed []events.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, rec, err := s.load(ctx, userID, factionID)
		if err != nil {
			return err
		}
		now := s.now()
		var ev events.Event
		rec, ev = s.settle(u, rec, now)
		if ev != nil {
			billed = append(billed, ev)
		}

		rec, change, err = s.scheduler.ChangeTier(rec, to, u.Balance, now)
		if err != nil {
			return err
		}
		if change.Charged > 0 {
			if err := u.Debit(change.Charged); err != nil {
				return err
			}
		}
		u.Credit(change.Refunded)

		if err := s.subs.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		return s.users.UpdateBalance(ctx, userID, u.Balance)
	})
	if err != nil {
		return subscription.TierChange{}, err
	}

	s.publish(ctx, billed...)
	return change, nil
}

// Slots settles and lists the player's subscriptions.
func (s *Service) Slots(ctx context.Context, userID string) ([]Slot, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var slots []Slot
	var billed []events.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		recs, err := s.subs.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		now := s.now()
		balance := u.Balance
		slots = make([]Slot, 0, len(recs))
		for _, rec := range recs {
			settled, ev := s.settle(u, rec, now)
			if settled != rec {
				if err := s.subs.Save(ctx, settled); err != nil {
					return fmt.Errorf("failed to save subscription: %w", err)
				}
			}
			if ev != nil {
				billed = append(billed, ev)
			}
			status, next := s.scheduler.Status(settled, now)
			slots = append(slots, Slot{Record: settled, Status: status, Next: next})
		}
		if u.Balance != balance {
			return s.users.UpdateBalance(ctx, userID, u.Balance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, billed...)
	return slots, nil
}

// SetSlot puts a subscribed faction on a generation slot or takes it off.
func (s *Service) SetSlot(ctx context.Context, userID, factionID string, assigned bool) (Slot, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var slot Slot
	var billed []events.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, rec, err := s.load(ctx, userID, factionID)
		if err != nil {
			return err
		}
		if rec.SlotAssigned == assigned {
			if assigned {
				return rules.Reject(rules.InvalidTransition, "%s already has a generation slot", factionID)
			}
			return rules.Reject(rules.InvalidTransition, "%s has no generation slot", factionID)
		}

		now := s.now()
		balance := u.Balance
		rec, ev := s.settle(u, rec, now)
		if ev != nil {
			billed = append(billed, ev)
		}
		if assigned {
			rec = s.scheduler.AssignSlot(rec, now)
		} else {
			rec = s.scheduler.ReleaseSlot(rec)
		}

		if err := s.subs.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		status, next := s.scheduler.Status(rec, now)
		slot = Slot{Record: rec, Status: status, Next: next}
		if u.Balance != balance {
			return s.users.UpdateBalance(ctx, userID, u.Balance)
		}
		return nil
	})
	if err != nil {
		return Slot{}, err
	}

	s.publish(ctx, billed...)
	return slot, nil
}

// RunDueGenerations generates one card for every slot that is active now.
// Users busy with an interactive command are skipped until the next tick.
func (s *Service) RunDueGenerations(ctx context.Context) (int, error) {
	recs, err := s.subs.ListAssigned(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assigned slots: %w", err)
	}

	generated := 0
	var errs []error
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		ok, err := s.generateFor(ctx, rec.UserID, rec.FactionID)
		if err != nil {
			slog.Error("Scheduled generation failed",
				slog.String("type", "error"),
				slog.String("user_id", rec.UserID),
				slog.String("faction", rec.FactionID),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		if ok {
			generated++
		}
	}
	return generated, errors.Join(errs...)
}

func (s *Service) generateFor(ctx context.Context, userID, factionID string) (bool, error) {
	unlock, ok := s.locks.TryLock(userID)
	if !ok {
		return false, nil
	}
	defer unlock()

	var published []events.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, rec, err := s.load(ctx, userID, factionID)
		if err != nil {
			return err
		}
		now := s.now()
		balance := u.Balance
		settled, ev := s.settle(u, rec, now)
		if ev != nil {
			published = append(published, ev)
		}

		if status, _ := s.scheduler.Status(settled, now); status != subscription.SlotActive {
			if settled != rec {
				if err := s.subs.Save(ctx, settled); err != nil {
					return err
				}
			}
			if u.Balance != balance {
				return s.users.UpdateBalance(ctx, userID, u.Balance)
			}
			return nil
		}

		// Affinity before this generation shapes its odds.
		card, err := s.generateCard(u, settled)
		if err != nil {
			return err
		}
		next, err := s.scheduler.TryGenerate(settled, now)
		if err != nil {
			return err
		}

		if err := s.cards.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to store generated card: %w", err)
		}
		if err := s.subs.Save(ctx, next); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		published = append(published, events.CardGenerated{UserID: userID, FactionID: factionID, Card: card, At: now})
		if u.Balance != balance {
			return s.users.UpdateBalance(ctx, userID, u.Balance)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.publish(ctx, published...)
	for _, e := range published {
		if _, ok := e.(events.CardGenerated); ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) generateCard(u *users.User, rec subscription.Record) (*cards.Card, error) {
	cfg, err := s.scheduler.Tiers().Lookup(rec.Tier)
	if err != nil {
		return nil, err
	}

	in := generator.ProfileInput{
		Tier:     cfg.Bonus,
		Affinity: rec.Affinity,
		Research: u.Research,
	}
	bonuses := generator.Bonuses{Research: u.Research}
	if t := s.cfg.Trend; t != nil && t.Faction == rec.FactionID {
		in.TrendMultiplier = t.Multiplier
		bonuses.Trend = t
	}

	opts := []generator.Option{generator.WithClock(s.now)}
	if s.newID != nil {
		opts = append(opts, generator.WithIDFunc(s.newID))
	}
	gen := generator.New(factionTemplates{catalog: s.catalog, faction: rec.FactionID}, s.src, opts...)
	return gen.Generate(u.ID, generator.BuildProfile(in), bonuses)
}

// load fetches the wallet and one subscription.
func (s *Service) load(ctx context.Context, userID, factionID string) (*users.User, subscription.Record, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, subscription.Record{}, err
	}
	rec, err := s.subs.Get(ctx, userID, factionID)
	if errors.Is(err, subscription.ErrNotFound) {
		return nil, subscription.Record{}, rules.Reject(rules.InvalidTransition, "you are not subscribed to %s", factionID)
	}
	if err != nil {
		return nil, subscription.Record{}, fmt.Errorf("failed to load subscription: %w", err)
	}
	return u, rec, nil
}

// settle bills elapsed days and rolls the daily counter over. The full bill is
// taken even when it pushes the balance below zero.
func (s *Service) settle(u *users.User, rec subscription.Record, now time.Time) (subscription.Record, events.Event) {
	rec, bill := s.scheduler.Bill(rec, now)
	rec = s.scheduler.Rollover(rec, now)
	if bill.Days == 0 {
		return rec, nil
	}

	u.Balance -= bill.Charged
	return rec, events.SubscriptionBilled{
		UserID:    rec.UserID,
		FactionID: rec.FactionID,
		Days:      bill.Days,
		Charged:   bill.Charged,
	}
}

// factionTemplates narrows the catalog to one faction. Rarities the faction
// lacks fall back to its commons, then to every common.
type factionTemplates struct {
	catalog generator.Templates
	faction string
}

func (f factionTemplates) ByRarity(r cards.Rarity) []cards.Template {
	all := f.catalog.ByRarity(r)
	out := make([]cards.Template, 0, len(all))
	for _, t := range all {
		if t.Faction == f.faction {
			out = append(out, t)
		}
	}
	if len(out) == 0 && r == cards.Common {
		return all
	}
	return out
}
