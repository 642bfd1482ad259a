package rules

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was refused. All kinds are recoverable:
// nothing was mutated and the caller may retry with different input.
type Kind int

const (
	InsufficientResources Kind = iota + 1
	InvalidMaterials
	InvalidTransition
)

var (
	ErrInsufficientFunds = errors.New("insufficient resources")
	ErrInvalidMaterials  = errors.New("invalid material set")
	ErrInvalidTransition = errors.New("invalid state transition")
)

func (k Kind) sentinel() error {
	switch k {
	case InsufficientResources:
		return ErrInsufficientFunds
	case InvalidMaterials:
		return ErrInvalidMaterials
	case InvalidTransition:
		return ErrInvalidTransition
	}
	return nil
}

// Rejection is a precondition failure with a short reason meant for players.
type Rejection struct {
	Kind   Kind
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func (r *Rejection) Is(target error) bool {
	return target == r.Kind.sentinel()
}

func Reject(kind Kind, format string, args ...any) error {
	return &Rejection{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func Insufficient(need, have int64) error {
	return Reject(InsufficientResources, "you need %d credits but only have %d", need, have)
}

// IsRejection reports whether err is an expected refusal rather than a fault.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// Reason extracts the player-facing reason, or "" for unexpected errors.
func Reason(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return ""
}
