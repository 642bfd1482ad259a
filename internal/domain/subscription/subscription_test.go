package subscription

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/rules"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newScheduler() *Scheduler {
	return NewScheduler(DefaultTable(), time.UTC)
}

func subscribed(t *testing.T, s *Scheduler, tier Tier) Record {
	t.Helper()
	rec, _, err := s.Subscribe("42", "stellar", tier, 1000, t0)
	require.NoError(t, err)
	return rec
}

func TestSubscribe(t *testing.T) {
	s := newScheduler()

	rec, charged, err := s.Subscribe("42", "stellar", Ultra, 40, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(40), charged)
	assert.Equal(t, Ultra, rec.Tier)
	assert.Equal(t, int64(40), rec.DailyCost)
	assert.Equal(t, 30, rec.DailyGenerationLimit)
	assert.Equal(t, 20*time.Minute, rec.GenerationInterval)
	assert.Equal(t, t0, rec.SubscribedAt)
	assert.Equal(t, t0, rec.LastBilledAt)
	assert.Equal(t, "2024-05-01", rec.LastResetDate)
	assert.False(t, rec.SlotAssigned)

	_, _, err = s.Subscribe("42", "stellar", Ultra, 39, t0)
	require.ErrorIs(t, err, rules.ErrInsufficientFunds)

	_, _, err = s.Subscribe("42", "stellar", Tier("platinum"), 1000, t0)
	require.ErrorIs(t, err, rules.ErrInvalidTransition)
}

func TestSubscribeFreeWhileInDebt(t *testing.T) {
	s := newScheduler()

	rec, charged, err := s.Subscribe("42", "stellar", Free, -25, t0)
	require.NoError(t, err)
	assert.Zero(t, charged)
	assert.Equal(t, Free, rec.Tier)

	_, _, err = s.Subscribe("42", "stellar", Pro, -25, t0)
	require.ErrorIs(t, err, rules.ErrInsufficientFunds)
}

func TestBillTwoDaysLate(t *testing.T) {
	s := newScheduler()
	rec := subscribed(t, s, Ultra)
	rec.Affinity = 20

	billed, b := s.Bill(rec, t0.Add(48*time.Hour))
	assert.Equal(t, 2, b.Days)
	assert.Equal(t, int64(80), b.Charged)
	assert.Equal(t, 10, b.AffinityGained)
	assert.Equal(t, 30, billed.Affinity)
	assert.Equal(t, t0.Add(48*time.Hour), billed.LastBilledAt)

	balance := int64(50) - b.Charged
	assert.Equal(t, int64(-30), balance, "billing is allowed to push the balance negative")
}

func TestBillClampsAffinity(t *testing.T) {
	s := newScheduler()
	rec := subscribed(t, s, Ultra)
	rec.Affinity = 97

	billed, b := s.Bill(rec, t0.Add(48*time.Hour))
	assert.Equal(t, MaxAffinity, billed.Affinity)
	assert.Equal(t, 3, b.AffinityGained)
	assert.Equal(t, int64(80), b.Charged)
}

func TestBillIsIdempotent(t *testing.T) {
	s := newScheduler()
	rec := subscribed(t, s, Pro)
	now := t0.Add(30 * time.Hour)

	first, b1 := s.Bill(rec, now)
	second, b2 := s.Bill(first, now)

	assert.Equal(t, int64(20), b1.Charged)
	assert.Zero(t, b2.Charged)
	assert.Zero(t, b2.Days)
	assert.Equal(t, first, second)
	assert.Equal(t, t0.Add(24*time.Hour), first.LastBilledAt, "partial days stay unbilled")

	_, b3 := s.Bill(first, t0.Add(48*time.Hour))
	assert.Equal(t, 1, b3.Days)
}

func TestAssignSlot(t *testing.T) {
	s := newScheduler()

	t.Run("schedules the first generation one interval out", func(t *testing.T) {
		rec := s.AssignSlot(subscribed(t, s, Pro), t0)
		status, next := s.Status(rec, t0)
		assert.Equal(t, SlotWaiting, status)
		require.NotNil(t, next)
		assert.Equal(t, t0.Add(time.Hour), *next)

		status, _ = s.Status(rec, t0.Add(time.Hour))
		assert.Equal(t, SlotActive, status)
	})

	t.Run("exhausted faction parks at limit reached", func(t *testing.T) {
		rec := subscribed(t, s, Free)
		rec.GenerationsToday = 3

		rec = s.AssignSlot(rec, t0)
		status, next := s.Status(rec, t0)
		assert.Equal(t, SlotLimitReached, status)
		assert.Nil(t, next)
		assert.Nil(t, rec.NextGenerationAt)
	})

	t.Run("stale counter is reset first", func(t *testing.T) {
		rec := subscribed(t, s, Free)
		rec.GenerationsToday = 3
		rec.LastResetDate = "2024-04-30"

		rec = s.AssignSlot(rec, t0)
		assert.Zero(t, rec.GenerationsToday)
		status, _ := s.Status(rec, t0)
		assert.Equal(t, SlotWaiting, status)
	})

	t.Run("released slot is empty", func(t *testing.T) {
		rec := s.ReleaseSlot(s.AssignSlot(subscribed(t, s, Pro), t0))
		status, next := s.Status(rec, t0)
		assert.Equal(t, SlotEmpty, status)
		assert.Nil(t, next)
	})
}

func TestTryGenerateRespectsLimit(t *testing.T) {
	s := newScheduler()
	rec := s.AssignSlot(subscribed(t, s, Free), t0)

	_, err := s.TryGenerate(rec, t0)
	require.ErrorIs(t, err, rules.ErrInvalidTransition, "too early")

	now := t0
	for i := 1; i <= 3; i++ {
		now = now.Add(4 * time.Hour)
		rec, err = s.TryGenerate(rec, now)
		require.NoError(t, err, "generation %d", i)
		assert.Equal(t, i, rec.GenerationsToday)
		assert.Equal(t, i, rec.Affinity)
		assert.LessOrEqual(t, rec.GenerationsToday, rec.DailyGenerationLimit)
	}

	status, next := s.Status(rec, now)
	assert.Equal(t, SlotLimitReached, status)
	assert.Nil(t, next)

	before := rec
	after, err := s.TryGenerate(rec, now.Add(time.Hour))
	require.ErrorIs(t, err, rules.ErrInvalidTransition)
	assert.Equal(t, before, after)

	// 2024-05-02, the next calendar day.
	tomorrow := time.Date(2024, 5, 2, 0, 30, 0, 0, time.UTC)
	status, _ = s.Status(rec, tomorrow)
	assert.Equal(t, SlotActive, status)

	rec, err = s.TryGenerate(rec, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.GenerationsToday)
	assert.Equal(t, "2024-05-02", rec.LastResetDate)
}

func TestTryGenerateWithoutSlot(t *testing.T) {
	s := newScheduler()
	_, err := s.TryGenerate(subscribed(t, s, Pro), t0)
	require.ErrorIs(t, err, rules.ErrInvalidTransition)
}

func TestRolloverUsesLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	s := NewScheduler(DefaultTable(), tokyo)

	late := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-02", s.DateKey(late))

	rec := Record{GenerationsToday: 2, DailyGenerationLimit: 3, LastResetDate: "2024-05-01"}
	rec = s.Rollover(rec, late)
	assert.Zero(t, rec.GenerationsToday)

	// Three hours later is still the same local date, so nothing resets.
	rec.GenerationsToday = 2
	rec = s.Rollover(rec, late.Add(3*time.Hour))
	assert.Equal(t, 2, rec.GenerationsToday)
}

func TestChangeTier(t *testing.T) {
	s := newScheduler()

	t.Run("upgrade charges the difference", func(t *testing.T) {
		rec := subscribed(t, s, Pro)
		rec.Affinity = 40

		out, change, err := s.ChangeTier(rec, Ultra, 20, t0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), change.Charged)
		assert.Zero(t, change.Refunded)
		assert.Equal(t, Ultra, out.Tier)
		assert.Equal(t, int64(40), out.DailyCost)
		assert.Equal(t, 30, out.DailyGenerationLimit)
		assert.Equal(t, 40, out.Affinity)
	})

	t.Run("upgrade needs the difference in credits", func(t *testing.T) {
		_, _, err := s.ChangeTier(subscribed(t, s, Free), Pro, 19, t0)
		require.ErrorIs(t, err, rules.ErrInsufficientFunds)
	})

	t.Run("downgrade refunds half the difference", func(t *testing.T) {
		out, change, err := s.ChangeTier(subscribed(t, s, Ultra), Free, 0, t0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), change.Refunded)
		assert.Zero(t, change.Charged)
		assert.Equal(t, Free, out.Tier)
	})

	t.Run("downgrade below today's usage parks the slot", func(t *testing.T) {
		rec := s.AssignSlot(subscribed(t, s, Ultra), t0)
		rec.GenerationsToday = 12

		out, _, err := s.ChangeTier(rec, Pro, 0, t0)
		require.NoError(t, err)
		assert.Equal(t, 12, out.GenerationsToday, "same day keeps the counter")
		status, _ := s.Status(out, t0)
		assert.Equal(t, SlotLimitReached, status)
	})

	t.Run("same tier is rejected", func(t *testing.T) {
		_, _, err := s.ChangeTier(subscribed(t, s, Pro), Pro, 1000, t0)
		require.ErrorIs(t, err, rules.ErrInvalidTransition)
	})
}

func TestUnsubscribeRefunds(t *testing.T) {
	s := newScheduler()

	tests := []struct {
		name    string
		tier    Tier
		history Cancellation
		after   time.Duration
		want    int64
	}{
		{name: "free tier refunds nothing", tier: Free, after: time.Hour, want: 0},
		{name: "first cancellation refunds half", tier: Pro, after: 72 * time.Hour, want: 10},
		{name: "repeat within a day refunds in full", tier: Ultra, history: Cancellation{Count: 1}, after: 23 * time.Hour, want: 40},
		{name: "repeat after a day refunds nothing", tier: Ultra, history: Cancellation{Count: 2}, after: 25 * time.Hour, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := subscribed(t, s, tt.tier)
			now := t0.Add(tt.after)

			refund, history := Unsubscribe(rec, tt.history, now)
			assert.Equal(t, tt.want, refund)
			assert.Equal(t, tt.history.Count+1, history.Count)
			assert.Equal(t, "stellar", history.FactionID)
			assert.Equal(t, now, history.LastCancelledAt)
		})
	}
}

func TestRecordSurvivesJSON(t *testing.T) {
	s := newScheduler()
	rec := s.AssignSlot(subscribed(t, s, Pro), t0)
	rec.Affinity = 12

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded Record
	require.NoError(t, json.Unmarshal(raw, &decoded))

	now := t0.Add(50 * time.Hour)
	a, ba := s.Bill(rec, now)
	b, bb := s.Bill(decoded, now)
	assert.Equal(t, ba, bb)
	assert.Equal(t, a.LastBilledAt, b.LastBilledAt)

	ga, errA := s.TryGenerate(a, now)
	gb, errB := s.TryGenerate(b, now)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, ga.GenerationsToday, gb.GenerationsToday)
	assert.Equal(t, ga.Affinity, gb.Affinity)
	assert.Equal(t, *ga.NextGenerationAt, *gb.NextGenerationAt)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" ULTRA ")
	require.NoError(t, err)
	assert.Equal(t, Ultra, tier)

	_, err = ParseTier("gold")
	require.Error(t, err)
}
