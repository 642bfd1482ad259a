package cards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const CardsPerPage = 10

var ErrNoCards = errors.New("no cards found")

// Filter narrows a collection listing. Zero values match everything.
type Filter struct {
	Name    string
	Faction string
	Rarity  *Rarity
	Type    Type
	Locked  bool
}

func (f Filter) Active() bool {
	return f.Name != "" || f.Faction != "" || f.Rarity != nil || f.Type != "" || f.Locked
}

func (f Filter) Match(c *Card) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Faction != "" && !strings.EqualFold(c.Faction, f.Faction) {
		return false
	}
	if f.Rarity != nil && c.Rarity != *f.Rarity {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Locked && !c.IsLocked {
		return false
	}
	return true
}

func (f Filter) Describe() string {
	var parts []string
	if f.Name != "" {
		parts = append(parts, fmt.Sprintf("name: %s", f.Name))
	}
	if f.Faction != "" {
		parts = append(parts, fmt.Sprintf("faction: %s", f.Faction))
	}
	if f.Rarity != nil {
		parts = append(parts, fmt.Sprintf("rarity: %s", f.Rarity))
	}
	if f.Type != "" {
		parts = append(parts, fmt.Sprintf("type: %s", f.Type))
	}
	if f.Locked {
		parts = append(parts, "locked only")
	}
	return "🔍 " + strings.Join(parts, " • ")
}

type Service interface {
	GetUserCards(ctx context.Context, userID string, filter Filter) ([]*Card, int, error)
	ToggleLock(ctx context.Context, userID, cardID string) (*Card, error)
}

type service struct {
	repository Repository
}

func NewService(repository Repository) *service {
	return &service{
		repository: repository,
	}
}

// GetUserCards lists a user's cards sorted by rarity, then power, then name,
// and reports the page count.
func (s *service) GetUserCards(ctx context.Context, userID string, filter Filter) ([]*Card, int, error) {
	owned, err := s.repository.GetAllByOwner(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cards: %w", err)
	}
	if len(owned) == 0 {
		return nil, 0, ErrNoCards
	}

	cards := make([]*Card, 0, len(owned))
	for _, c := range owned {
		if filter.Match(c) {
			cards = append(cards, c)
		}
	}
	if len(cards) == 0 {
		return nil, 0, fmt.Errorf("no cards match your criteria: %w", ErrNoCards)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rarity != cards[j].Rarity {
			return cards[i].Rarity > cards[j].Rarity
		}
		if cards[i].BasePower() != cards[j].BasePower() {
			return cards[i].BasePower() > cards[j].BasePower()
		}
		return cards[i].Name < cards[j].Name
	})

	pages := int(math.Ceil(float64(len(cards)) / float64(CardsPerPage)))
	return cards, pages, nil
}

// ToggleLock flips the lock flag of a card the user owns.
func (s *service) ToggleLock(ctx context.Context, userID, cardID string) (*Card, error) {
	card, err := s.repository.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card %s: %w", cardID, err)
	}
	if card.OwnerID != userID {
		return nil, fmt.Errorf("card %s: %w", cardID, ErrNoCards)
	}

	card.IsLocked = !card.IsLocked
	if err := s.repository.SetLocked(ctx, card.ID, card.IsLocked); err != nil {
		return nil, fmt.Errorf("failed to update card %s: %w", cardID, err)
	}
	return card, nil
}
