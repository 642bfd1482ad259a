package cards

import (
	"context"
)

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

// Repository persists owned cards. Implementations join the transaction
// carried by ctx when there is one.
type Repository interface {
	Create(ctx context.Context, card *Card) error
	GetByID(ctx context.Context, id string) (*Card, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Card, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]*Card, error)
	GetByTemplate(ctx context.Context, ownerID, templateID string) ([]*Card, error)
	Update(ctx context.Context, card *Card) error
	SetLocked(ctx context.Context, id string, locked bool) error
	DeleteMany(ctx context.Context, ids []string) error
}
