package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/users"
	"github.com/cardclash/bot/internal/gateways/database/models"
)

const entityUser = "user"

type userRepository struct {
	*BaseRepository
}

var _ users.Repository = &userRepository{}

func NewUserRepository(db *bun.DB) *userRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Get(ctx context.Context, id string) (*users.User, error) {
	row := new(models.User)
	err := r.SelectOneWithTimeout(ctx, "get", entityUser, id, users.ErrNotFound, func(ctx context.Context, db bun.IDB) error {
		return db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// Create inserts the user, leaving an existing row untouched.
func (r *userRepository) Create(ctx context.Context, user *users.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.ExecWithTimeout(ctx, "create", entityUser, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewInsert().
			Model(models.NewUser(user)).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
	})
	return err
}

func (r *userRepository) Update(ctx context.Context, user *users.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.ExecWithTimeout(ctx, "update", entityUser, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewUpdate().
			Model(models.NewUser(user)).
			ExcludeColumn("created_at").
			WherePK().
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	return r.expectRow(res, user.ID)
}

func (r *userRepository) UpdateBalance(ctx context.Context, id string, balance int64) error {
	res, err := r.ExecWithTimeout(ctx, "update_balance", entityUser, func(ctx context.Context, db bun.IDB) (sql.Result, error) {
		return db.NewUpdate().
			Model((*models.User)(nil)).
			Set("balance = ?", balance).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	return r.expectRow(res, id)
}

func (r *userRepository) expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("rows_affected", entityUser, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entityUser, ID: id, Err: users.ErrNotFound}
	}
	return nil
}
