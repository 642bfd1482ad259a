package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/gateways/database/models"
)

const (
	entitySubscription = "subscription"
	entityCancellation = "subscription_cancellation"
)

type subscriptionRepository struct {
	*BaseRepository
}

var _ subscription.Repository = &subscriptionRepository{}

func NewSubscriptionRepository(db *bun.DB) *subscriptionRepository {
	return &subscriptionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *subscriptionRepository) Get(ctx context.Context, userID, factionID string) (subscription.Record, error) {
	row := new(models.Subscription)
	err := r.SelectOneWithTimeout(ctx, "get", entitySubscription, userID+"/"+factionID, subscription.ErrNotFound,
		func(ctx context.Context, db bun.IDB) error {
			return db.NewSelect().
				Model(row).
				Where("user_id = ?", userID).
				Where("faction_id = ?", factionID).
				Scan(ctx)
		})
	if err != nil {
		return subscription.Record{}, err
	}
	return row.ToDomain()
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string) ([]subscription.Record, error) {
	return r.list(ctx, "list_by_user", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

func (r *subscriptionRepository) ListAssigned(ctx context.Context) ([]subscription.Record, error) {
	return r.list(ctx, "list_assigned", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("slot_assigned = true")
	})
}

func (r *subscriptionRepository) list(ctx context.Context, operation string, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]subscription.Record, error) {
	var rows []*models.Subscription
	err := r.SelectWithTimeout(ctx, operation, entitySubscription, func(ctx context.Context, db bun.IDB) error {
		return filter(db.NewSelect().Model(&rows)).
			Order("user_id ASC", "faction_id ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := make([]subscription.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Save upserts the record on (user_id, faction_id).
func (r *subscriptionRepository) Save(ctx context.Context, rec subscription.Record) error {
	row := models.NewSubscription(rec)
	row.UpdatedAt = time.Now()

	_, err := r.ExecWithTimeout(ctx, "save", entitySubscription, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewInsert().
			Model(row).
			On("CONFLICT (user_id, faction_id) DO UPDATE").
			Set("tier = EXCLUDED.tier").
			Set("subscribed_at = EXCLUDED.subscribed_at").
			Set("last_billed_at = EXCLUDED.last_billed_at").
			Set("daily_cost = EXCLUDED.daily_cost").
			Set("daily_generation_limit = EXCLUDED.daily_generation_limit").
			Set("generation_interval_ms = EXCLUDED.generation_interval_ms").
			Set("generations_today = EXCLUDED.generations_today").
			Set("last_reset_date = EXCLUDED.last_reset_date").
			Set("affinity = EXCLUDED.affinity").
			Set("slot_assigned = EXCLUDED.slot_assigned").
			Set("next_generation_at = EXCLUDED.next_generation_at").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
	})
	return err
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID, factionID string) error {
	res, err := r.ExecWithTimeout(ctx, "delete", entitySubscription, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewDelete().
			Model((*models.Subscription)(nil)).
			Where("user_id = ?", userID).
			Where("faction_id = ?", factionID).
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("delete", entitySubscription, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entitySubscription, ID: userID + "/" + factionID, Err: subscription.ErrNotFound}
	}
	return nil
}

func (r *subscriptionRepository) GetCancellation(ctx context.Context, userID, factionID string) (subscription.Cancellation, error) {
	row := new(models.Cancellation)
	err := r.SelectOneWithTimeout(ctx, "get", entityCancellation, userID+"/"+factionID, subscription.ErrNotFound,
		func(ctx context.Context, db bun.IDB) error {
			return db.NewSelect().
				Model(row).
				Where("user_id = ?", userID).
				Where("faction_id = ?", factionID).
				Scan(ctx)
		})
	if errors.Is(err, subscription.ErrNotFound) {
		return subscription.Cancellation{UserID: userID, FactionID: factionID}, nil
	}
	if err != nil {
		return subscription.Cancellation{}, err
	}
	return row.ToDomain(), nil
}

func (r *subscriptionRepository) SaveCancellation(ctx context.Context, c subscription.Cancellation) error {
	_, err := r.ExecWithTimeout(ctx, "save", entityCancellation, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewInsert().
			Model(models.NewCancellation(c)).
			On("CONFLICT (user_id, faction_id) DO UPDATE").
			Set("count = EXCLUDED.count").
			Set("last_cancelled_at = EXCLUDED.last_cancelled_at").
			Exec(ctx)
	})
	return err
}
