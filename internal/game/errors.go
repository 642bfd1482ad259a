package game

import (
	"github.com/cardclash/bot/internal/domain/rules"
)

var (
	ErrNotOwned = &rules.Rejection{Kind: rules.InvalidMaterials, Reason: "you don't own all of those cards"}
	ErrBusy     = &rules.Rejection{Kind: rules.InvalidTransition, Reason: "another action of yours is still running"}
)
