package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/subscription"
)

type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions,alias:s"`

	UserID               string     `bun:"user_id,pk,type:text"`
	FactionID            string     `bun:"faction_id,pk,type:text"`
	Tier                 string     `bun:"tier,notnull"`
	SubscribedAt         time.Time  `bun:"subscribed_at,notnull"`
	LastBilledAt         time.Time  `bun:"last_billed_at,notnull"`
	DailyCost            int64      `bun:"daily_cost,notnull,default:0"`
	DailyGenerationLimit int        `bun:"daily_generation_limit,notnull"`
	GenerationInterval   int64      `bun:"generation_interval_ms,notnull"`
	GenerationsToday     int        `bun:"generations_today,notnull,default:0"`
	LastResetDate        string     `bun:"last_reset_date,notnull"`
	Affinity             int        `bun:"affinity,notnull,default:0"`
	SlotAssigned         bool       `bun:"slot_assigned,notnull,default:false"`
	NextGenerationAt     *time.Time `bun:"next_generation_at,nullzero"`
	UpdatedAt            time.Time  `bun:"updated_at,notnull"`
}

func NewSubscription(r subscription.Record) *Subscription {
	return &Subscription{
		UserID:               r.UserID,
		FactionID:            r.FactionID,
		Tier:                 string(r.Tier),
		SubscribedAt:         r.SubscribedAt,
		LastBilledAt:         r.LastBilledAt,
		DailyCost:            r.DailyCost,
		DailyGenerationLimit: r.DailyGenerationLimit,
		GenerationInterval:   r.GenerationInterval.Milliseconds(),
		GenerationsToday:     r.GenerationsToday,
		LastResetDate:        r.LastResetDate,
		Affinity:             r.Affinity,
		SlotAssigned:         r.SlotAssigned,
		NextGenerationAt:     r.NextGenerationAt,
	}
}

func (m *Subscription) ToDomain() (subscription.Record, error) {
	tier, err := subscription.ParseTier(m.Tier)
	if err != nil {
		return subscription.Record{}, fmt.Errorf("subscription %s/%s: %w", m.UserID, m.FactionID, err)
	}
	return subscription.Record{
		UserID:               m.UserID,
		FactionID:            m.FactionID,
		Tier:                 tier,
		SubscribedAt:         m.SubscribedAt,
		LastBilledAt:         m.LastBilledAt,
		DailyCost:            m.DailyCost,
		DailyGenerationLimit: m.DailyGenerationLimit,
		GenerationInterval:   time.Duration(m.GenerationInterval) * time.Millisecond,
		GenerationsToday:     max(m.GenerationsToday, 0),
		LastResetDate:        m.LastResetDate,
		Affinity:             min(max(m.Affinity, 0), subscription.MaxAffinity),
		SlotAssigned:         m.SlotAssigned,
		NextGenerationAt:     m.NextGenerationAt,
	}, nil
}

type Cancellation struct {
	bun.BaseModel `bun:"table:subscription_cancellations,alias:sc"`

	UserID          string    `bun:"user_id,pk,type:text"`
	FactionID       string    `bun:"faction_id,pk,type:text"`
	Count           int       `bun:"count,notnull,default:0"`
	LastCancelledAt time.Time `bun:"last_cancelled_at,notnull"`
}

func NewCancellation(c subscription.Cancellation) *Cancellation {
	return &Cancellation{
		UserID:          c.UserID,
		FactionID:       c.FactionID,
		Count:           c.Count,
		LastCancelledAt: c.LastCancelledAt,
	}
}

func (m *Cancellation) ToDomain() subscription.Cancellation {
	return subscription.Cancellation{
		UserID:          m.UserID,
		FactionID:       m.FactionID,
		Count:           m.Count,
		LastCancelledAt: m.LastCancelledAt,
	}
}
