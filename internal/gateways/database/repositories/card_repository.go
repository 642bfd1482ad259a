package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/gateways/database/models"
)

const entityCard = "card"

type cardRepository struct {
	*BaseRepository
}

var _ cards.Repository = &cardRepository{}

func NewCardRepository(db *bun.DB) *cardRepository {
	return &cardRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *cardRepository) Create(ctx context.Context, card *cards.Card) error {
	row := models.NewCard(card)
	now := time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	_, err := r.ExecWithTimeout(ctx, "create", entityCard, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewInsert().Model(row).Exec(ctx)
	})
	return err
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*cards.Card, error) {
	row := new(models.Card)
	err := r.SelectOneWithTimeout(ctx, "get", entityCard, id, cards.ErrNoCards, func(ctx context.Context, db bun.IDB) error {
		return db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []string) ([]*cards.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*models.Card
	err := r.SelectWithTimeout(ctx, "get_many", entityCard, func(ctx context.Context, db bun.IDB) error {
		return db.NewSelect().Model(&rows).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}

	// Keep the caller's order; fusion takes its base template from the first material.
	byID := make(map[string]*models.Card, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make([]*cards.Card, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{Entity: entityCard, ID: id, Err: cards.ErrNoCards}
		}
		card, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

func (r *cardRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]*cards.Card, error) {
	return r.list(ctx, "get_by_owner", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", ownerID)
	})
}

func (r *cardRepository) GetByTemplate(ctx context.Context, ownerID, templateID string) ([]*cards.Card, error) {
	return r.list(ctx, "get_by_template", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", ownerID).Where("template_id = ?", templateID)
	})
}

func (r *cardRepository) list(ctx context.Context, operation string, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]*cards.Card, error) {
	var rows []*models.Card
	err := r.SelectWithTimeout(ctx, operation, entityCard, func(ctx context.Context, db bun.IDB) error {
		return filter(db.NewSelect().Model(&rows)).
			Order("rarity DESC", "total_power DESC", "name ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*cards.Card, 0, len(rows))
	for _, row := range rows {
		card, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

func (r *cardRepository) Update(ctx context.Context, card *cards.Card) error {
	row := models.NewCard(card)
	row.UpdatedAt = time.Now()

	res, err := r.ExecWithTimeout(ctx, "update", entityCard, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewUpdate().
			Model(row).
			ExcludeColumn("created_at").
			WherePK().
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	return r.expectRows(res, card.ID)
}

func (r *cardRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	res, err := r.ExecWithTimeout(ctx, "set_locked", entityCard, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewUpdate().
			Model((*models.Card)(nil)).
			Set("locked = ?", locked).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	return r.expectRows(res, id)
}

// DeleteMany removes every listed card or none of them.
func (r *cardRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	res, err := r.ExecWithTimeout(ctx, "delete_many", entityCard, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewDelete().
			Model((*models.Card)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("delete_many", entityCard, err)
	}
	if int(n) != len(ids) {
		return &RepositoryError{
			Operation: "delete_many",
			Entity:    entityCard,
			Err:       fmt.Errorf("deleted %d of %d cards", n, len(ids)),
		}
	}
	return nil
}

func (r *cardRepository) expectRows(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("rows_affected", entityCard, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entityCard, ID: id, Err: cards.ErrNoCards}
	}
	return nil
}
