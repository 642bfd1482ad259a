package users

import (
	"context"
	"errors"
	"time"

	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/rules"
)

var ErrNotFound = errors.New("user not found")

// User is a player's wallet and research progress.
type User struct {
	ID            string
	Balance       int64
	Research      generator.Research
	// LastTrainedAt gates the training cooldown.
	LastTrainedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Debit removes cost from the balance, rejecting when the balance is short.
// A zero cost always succeeds, even while the wallet is in debt.
func (u *User) Debit(cost int64) error {
	switch {
	case cost < 0:
		return rules.Reject(rules.InvalidTransition, "cost cannot be negative")
	case cost == 0:
		return nil
	}
	if u.Balance < cost {
		return rules.Insufficient(cost, u.Balance)
	}
	u.Balance -= cost
	return nil
}

func (u *User) Credit(amount int64) {
	if amount > 0 {
		u.Balance += amount
	}
}

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

type Repository interface {
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateBalance(ctx context.Context, id string, balance int64) error
}
