package subscription

import (
	"math"
	"time"

	"github.com/cardclash/bot/internal/domain/rules"
)

type SlotStatus string

const (
	SlotEmpty        SlotStatus = "empty"
	SlotWaiting      SlotStatus = "waiting"
	SlotActive       SlotStatus = "active"
	SlotLimitReached SlotStatus = "limit_reached"
)

// Billing describes what a Bill call charged.
type Billing struct {
	Days           int
	Charged        int64
	AffinityGained int
}

// Scheduler owns the tier table and the calendar used for daily resets.
type Scheduler struct {
	tiers Table
	loc   *time.Location
}

func NewScheduler(tiers Table, loc *time.Location) *Scheduler {
	if tiers == nil {
		tiers = DefaultTable()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{tiers: tiers, loc: loc}
}

func (s *Scheduler) Tiers() Table {
	return s.tiers
}

// DateKey is the local calendar date used for the daily generation counter.
func (s *Scheduler) DateKey(now time.Time) string {
	return now.In(s.loc).Format(dateLayout)
}

// Rollover resets the daily counter when the local date changed since the
// last reset. A slot that was parked on the limit becomes active again.
func (s *Scheduler) Rollover(rec Record, now time.Time) Record {
	today := s.DateKey(now)
	if rec.LastResetDate == today {
		return rec
	}
	rec.GenerationsToday = 0
	rec.LastResetDate = today
	if rec.SlotAssigned && rec.NextGenerationAt == nil && !rec.exhausted() {
		next := now
		rec.NextGenerationAt = &next
	}
	return rec
}

// Bill charges every whole day elapsed since the last bill. The charge may
// exceed the balance; the caller applies it as debt. Calling it again
// without 24 more hours passing charges nothing.
func (s *Scheduler) Bill(rec Record, now time.Time) (Record, Billing) {
	hours := now.Sub(rec.LastBilledAt).Hours()
	days := int(math.Floor(hours / 24))
	if days < 1 {
		return rec, Billing{}
	}

	before := rec.Affinity
	rec.LastBilledAt = rec.LastBilledAt.Add(time.Duration(days) * billingDay)
	rec.Affinity = addAffinity(rec.Affinity, affinityPerBilledDay*days)

	return rec, Billing{
		Days:           days,
		Charged:        rec.DailyCost * int64(days),
		AffinityGained: rec.Affinity - before,
	}
}

// AssignSlot puts the faction on a generation slot. When the daily limit is
// already used up the slot parks at limit_reached with no next time.
func (s *Scheduler) AssignSlot(rec Record, now time.Time) Record {
	rec = s.Rollover(rec, now)
	rec.SlotAssigned = true
	if rec.exhausted() {
		rec.NextGenerationAt = nil
		return rec
	}
	next := now.Add(rec.GenerationInterval)
	rec.NextGenerationAt = &next
	return rec
}

// ReleaseSlot frees the faction's generation slot.
func (s *Scheduler) ReleaseSlot(rec Record) Record {
	rec.SlotAssigned = false
	rec.NextGenerationAt = nil
	return rec
}

// Status reports the slot state at now, and the next generation time when
// one is scheduled.
func (s *Scheduler) Status(rec Record, now time.Time) (SlotStatus, *time.Time) {
	if !rec.SlotAssigned {
		return SlotEmpty, nil
	}
	rec = s.Rollover(rec, now)
	switch {
	case rec.exhausted():
		return SlotLimitReached, nil
	case rec.NextGenerationAt == nil || !now.Before(*rec.NextGenerationAt):
		return SlotActive, rec.NextGenerationAt
	default:
		return SlotWaiting, rec.NextGenerationAt
	}
}

// TryGenerate consumes one generation if the slot is active. On success the
// slot goes back to waiting, or to limit_reached when that was the last one,
// and affinity grows by one. A rejection returns rec unchanged.
func (s *Scheduler) TryGenerate(rec Record, now time.Time) (Record, error) {
	status, next := s.Status(rec, now)
	switch status {
	case SlotEmpty:
		return rec, rules.Reject(rules.InvalidTransition, "%s has no generation slot", rec.FactionID)
	case SlotLimitReached:
		return rec, rules.Reject(rules.InvalidTransition, "daily generation limit of %d reached", rec.DailyGenerationLimit)
	case SlotWaiting:
		return rec, rules.Reject(rules.InvalidTransition, "next generation is in %s", next.Sub(now).Round(time.Minute))
	}

	out := s.Rollover(rec, now)
	out.GenerationsToday++
	out.Affinity = addAffinity(out.Affinity, affinityPerGeneration)
	if out.exhausted() {
		out.NextGenerationAt = nil
	} else {
		n := now.Add(out.GenerationInterval)
		out.NextGenerationAt = &n
	}
	return out, nil
}
