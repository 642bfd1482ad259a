package subscription

import (
	"time"

	"github.com/cardclash/bot/internal/domain/rules"
)

// Subscribe opens a subscription and charges the first day upfront. Callers
// reject duplicates before calling.
func (s *Scheduler) Subscribe(userID, factionID string, tier Tier, balance int64, now time.Time) (Record, int64, error) {
	cfg, err := s.tiers.Lookup(tier)
	if err != nil {
		return Record{}, 0, rules.Reject(rules.InvalidTransition, "%s is not an available tier", tier)
	}
	if cfg.DailyCost > 0 && balance < cfg.DailyCost {
		return Record{}, 0, rules.Insufficient(cfg.DailyCost, balance)
	}

	rec := Record{
		UserID:        userID,
		FactionID:     factionID,
		SubscribedAt:  now,
		LastBilledAt:  now,
		LastResetDate: s.DateKey(now),
	}.apply(cfg)
	return rec, cfg.DailyCost, nil
}

// TierChange is the money moved by a tier change. Charged is positive on
// upgrades; Refunded is positive on downgrades.
type TierChange struct {
	From     Tier
	To       Tier
	Charged  int64
	Refunded int64
}

// ChangeTier moves rec to another tier. Upgrading charges the daily cost
// difference; downgrading refunds half of it. Affinity is kept and the daily
// counter only resets on a date change.
func (s *Scheduler) ChangeTier(rec Record, to Tier, balance int64, now time.Time) (Record, TierChange, error) {
	if rec.Tier == to {
		return rec, TierChange{}, rules.Reject(rules.InvalidTransition, "you are already on the %s tier", to)
	}
	cfg, err := s.tiers.Lookup(to)
	if err != nil {
		return rec, TierChange{}, rules.Reject(rules.InvalidTransition, "%s is not an available tier", to)
	}

	change := TierChange{From: rec.Tier, To: to}
	delta := cfg.DailyCost - rec.DailyCost
	switch {
	case delta > 0:
		if balance < delta {
			return rec, TierChange{}, rules.Insufficient(delta, balance)
		}
		change.Charged = delta
	case delta < 0:
		change.Refunded = -delta / 2
	}

	out := s.Rollover(rec, now).apply(cfg)
	if out.SlotAssigned {
		switch {
		case out.exhausted():
			out.NextGenerationAt = nil
		case out.NextGenerationAt == nil:
			next := now
			out.NextGenerationAt = &next
		}
	}
	return out, change, nil
}

// Refund is what cancelling rec pays back. The free tier refunds nothing. The
// first cancellation for a faction refunds half a day; later ones refund a
// full day only within 24 hours of subscribing.
func Refund(rec Record, history Cancellation, now time.Time) int64 {
	if rec.Tier == Free || rec.DailyCost <= 0 {
		return 0
	}
	if history.Count == 0 {
		return rec.DailyCost / 2
	}
	if now.Sub(rec.SubscribedAt) <= billingDay {
		return rec.DailyCost
	}
	return 0
}

// Unsubscribe computes the refund and the updated cancellation history.
// history may be the zero value for a faction never cancelled before.
func Unsubscribe(rec Record, history Cancellation, now time.Time) (int64, Cancellation) {
	refund := Refund(rec, history, now)
	history.UserID = rec.UserID
	history.FactionID = rec.FactionID
	history.Count++
	history.LastCancelledAt = now
	return refund, history
}
