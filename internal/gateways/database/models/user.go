package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/users"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         string    `bun:"id,pk,type:text"`
	Balance    int64     `bun:"balance,notnull,default:0"`
	Efficiency int       `bun:"research_efficiency,notnull,default:0"`
	Creativity int       `bun:"research_creativity,notnull,default:0"`
	Function   int       `bun:"research_function,notnull,default:0"`
	Fortune    int       `bun:"research_fortune,notnull,default:0"`
	LastTrain  time.Time `bun:"last_train,nullzero"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func NewUser(u *users.User) *User {
	return &User{
		ID:         u.ID,
		Balance:    u.Balance,
		Efficiency: u.Research.Efficiency,
		Creativity: u.Research.Creativity,
		Function:   u.Research.Function,
		Fortune:    u.Research.Fortune,
		LastTrain:  u.LastTrainedAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToDomain keeps a negative balance: unpaid subscription days are soft debt.
func (m *User) ToDomain() *users.User {
	return &users.User{
		ID:      m.ID,
		Balance: m.Balance,
		Research: generator.Research{
			Efficiency: m.Efficiency,
			Creativity: m.Creativity,
			Function:   m.Function,
			Fortune:    m.Fortune,
		},
		LastTrainedAt: m.LastTrain,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
