package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardclash/bot/internal/domain/cards"
)

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID         string              `bun:"id,pk,type:text"`
	TemplateID string              `bun:"template_id,notnull"`
	OwnerID    string              `bun:"owner_id,notnull"`
	Name       string              `bun:"name,notnull"`
	Faction    string              `bun:"faction"`
	Rarity     int                 `bun:"rarity,notnull"`
	Type       string              `bun:"type,notnull"`
	Efficiency int                 `bun:"efficiency,notnull"`
	Creativity int                 `bun:"creativity,notnull"`
	Function   int                 `bun:"function,notnull"`
	TotalPower int                 `bun:"total_power,notnull"`
	Accuracy   int                 `bun:"accuracy,notnull,default:0"`
	Speed      int                 `bun:"speed,notnull,default:0"`
	Stability  int                 `bun:"stability,notnull,default:0"`
	Ethics     int                 `bun:"ethics,notnull,default:0"`
	Level      int                 `bun:"level,notnull,default:1"`
	Experience int                 `bun:"experience,notnull,default:0"`
	Skill      *cards.SpecialSkill `bun:"skill,type:jsonb"`
	Locked     bool                `bun:"locked,notnull,default:false"`
	CreatedAt  time.Time           `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time           `bun:"updated_at,notnull"`
}

func NewCard(c *cards.Card) *Card {
	return &Card{
		ID:         c.ID,
		TemplateID: c.TemplateID,
		OwnerID:    c.OwnerID,
		Name:       c.Name,
		Faction:    c.Faction,
		Rarity:     int(c.Rarity),
		Type:       string(c.Type),
		Efficiency: c.Stats.Efficiency,
		Creativity: c.Stats.Creativity,
		Function:   c.Stats.Function,
		TotalPower: c.Stats.TotalPower,
		Accuracy:   c.Stats.Accuracy,
		Speed:      c.Stats.Speed,
		Stability:  c.Stats.Stability,
		Ethics:     c.Stats.Ethics,
		Level:      c.Level,
		Experience: c.Experience,
		Skill:      c.SpecialSkill,
		Locked:     c.IsLocked,
		CreatedAt:  c.CreatedAt,
	}
}

// ToDomain converts a row to a card. Legacy COST rows become FUNCTION, the
// level is clamped to [1, MaxLevel] and TotalPower is recomputed.
func (m *Card) ToDomain() (*cards.Card, error) {
	rarity := cards.Rarity(m.Rarity)
	if !rarity.Valid() {
		return nil, fmt.Errorf("card %s: invalid rarity %d", m.ID, m.Rarity)
	}
	typ, err := cards.ParseType(m.Type)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", m.ID, err)
	}

	stats := cards.Stats{
		Efficiency: m.Efficiency,
		Creativity: m.Creativity,
		Function:   m.Function,
		Accuracy:   m.Accuracy,
		Speed:      m.Speed,
		Stability:  m.Stability,
		Ethics:     m.Ethics,
	}
	stats.Normalize()

	return &cards.Card{
		ID:           m.ID,
		TemplateID:   m.TemplateID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Faction:      m.Faction,
		Rarity:       rarity,
		Type:         typ,
		Stats:        stats,
		Level:        min(max(m.Level, 1), cards.MaxLevel),
		Experience:   max(m.Experience, 0),
		SpecialSkill: m.Skill,
		IsLocked:     m.Locked,
		CreatedAt:    m.CreatedAt,
	}, nil
}
