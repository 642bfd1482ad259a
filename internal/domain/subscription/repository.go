package subscription

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("subscription not found")

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

// Repository persists subscription records keyed by (user, faction) and the
// matching cancellation history.
type Repository interface {
	Get(ctx context.Context, userID, factionID string) (Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	// ListAssigned returns every record occupying a generation slot.
	ListAssigned(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, userID, factionID string) error
	// GetCancellation returns a zero Count history when none exists.
	GetCancellation(ctx context.Context, userID, factionID string) (Cancellation, error)
	SaveCancellation(ctx context.Context, c Cancellation) error
}
