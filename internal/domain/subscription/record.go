package subscription

import (
	"time"
)

const (
	MaxAffinity           = 100
	affinityPerGeneration = 1
	affinityPerBilledDay  = 5

	dateLayout = "2006-01-02"
	billingDay = 24 * time.Hour
)

// Record is one user's subscription to one faction. Engines take and return
// Records by value; the caller persists the returned snapshot.
type Record struct {
	UserID               string        `json:"userId"`
	FactionID            string        `json:"factionId"`
	Tier                 Tier          `json:"tier"`
	SubscribedAt         time.Time     `json:"subscribedAt"`
	LastBilledAt         time.Time     `json:"lastBilledAt"`
	DailyCost            int64         `json:"dailyCost"`
	DailyGenerationLimit int           `json:"dailyGenerationLimit"`
	GenerationInterval   time.Duration `json:"generationInterval"`
	GenerationsToday     int           `json:"generationsToday"`
	LastResetDate        string        `json:"lastResetDate"`
	Affinity             int           `json:"affinity"`

	// SlotAssigned is set once the faction occupies a generation slot.
	SlotAssigned bool `json:"slotAssigned"`
	// NextGenerationAt is nil while the daily limit is exhausted.
	NextGenerationAt *time.Time `json:"nextGenerationAt"`
}

func (r Record) apply(cfg TierConfig) Record {
	r.Tier = cfg.Tier
	r.DailyCost = cfg.DailyCost
	r.DailyGenerationLimit = cfg.DailyGenerationLimit
	r.GenerationInterval = cfg.GenerationInterval
	return r
}

func (r Record) exhausted() bool {
	return r.GenerationsToday >= r.DailyGenerationLimit
}

func addAffinity(current, delta int) int {
	v := current + delta
	if v > MaxAffinity {
		return MaxAffinity
	}
	if v < 0 {
		return 0
	}
	return v
}

// Cancellation is the per-faction cancellation history of a user.
type Cancellation struct {
	UserID          string    `json:"userId"`
	FactionID       string    `json:"factionId"`
	Count           int       `json:"count"`
	LastCancelledAt time.Time `json:"lastCancelledAt"`
}
