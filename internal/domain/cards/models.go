package cards

import (
	"fmt"
	"strings"
	"time"
)

// Rarity is ordered: common < rare < epic < legendary < unique < commander.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
	Unique
	Commander
)

// Rarities lists every rarity in ascending order. Weighted draws iterate it.
var Rarities = []Rarity{Common, Rare, Epic, Legendary, Unique, Commander}

var rarityNames = map[Rarity]string{
	Common:    "common",
	Rare:      "rare",
	Epic:      "epic",
	Legendary: "legendary",
	Unique:    "unique",
	Commander: "commander",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

func (r Rarity) Valid() bool {
	return r >= Common && r <= Commander
}

// Next returns the next tier in the fusion progression.
func (r Rarity) Next() (Rarity, bool) {
	if r >= Commander || r < Common {
		return r, false
	}
	return r + 1, true
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseRarity(s string) (Rarity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range rarityNames {
		if name == s {
			return r, nil
		}
	}
	return Common, fmt.Errorf("unknown rarity %q", s)
}

// Type is one of the three battle types forming a closed advantage cycle.
type Type string

const (
	Efficiency Type = "EFFICIENCY"
	Creativity Type = "CREATIVITY"
	Function   Type = "FUNCTION"

	// legacyCost only exists in old records and is folded into Function on ingestion.
	legacyCost = "COST"
)

// Types is the fixed order used for random type picks and stat tie-breaks.
var Types = []Type{Efficiency, Creativity, Function}

// ParseType converts stored or user supplied type names into a battle type.
// The legacy COST type maps to FUNCTION.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Efficiency):
		return Efficiency, nil
	case string(Creativity):
		return Creativity, nil
	case string(Function), legacyCost:
		return Function, nil
	}
	return "", fmt.Errorf("unknown card type %q", s)
}

func (t Type) Valid() bool {
	return t == Efficiency || t == Creativity || t == Function
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Stats holds the three battle stats plus display-only legacy values.
type Stats struct {
	Efficiency int `json:"efficiency" toml:"efficiency"`
	Creativity int `json:"creativity" toml:"creativity"`
	Function   int `json:"function" toml:"function"`
	TotalPower int `json:"totalPower" toml:"total_power"`

	Accuracy  int `json:"accuracy,omitempty" toml:"accuracy"`
	Speed     int `json:"speed,omitempty" toml:"speed"`
	Stability int `json:"stability,omitempty" toml:"stability"`
	Ethics    int `json:"ethics,omitempty" toml:"ethics"`
}

// Sum is the battle base power of the three core stats.
func (s Stats) Sum() int {
	return s.Efficiency + s.Creativity + s.Function
}

// Normalize restores TotalPower == Efficiency + Creativity + Function.
func (s *Stats) Normalize() {
	s.TotalPower = s.Sum()
}

// Get returns the stat associated with a battle type.
func (s Stats) Get(t Type) int {
	switch t {
	case Efficiency:
		return s.Efficiency
	case Creativity:
		return s.Creativity
	case Function:
		return s.Function
	}
	return 0
}

// Add increases the stat of the given type. TotalPower is not touched.
func (s *Stats) Add(t Type, delta int) {
	switch t {
	case Efficiency:
		s.Efficiency += delta
	case Creativity:
		s.Creativity += delta
	case Function:
		s.Function += delta
	}
}

// Highest returns the type of the largest stat, ties resolved in Types order.
func (s Stats) Highest() Type {
	best := Types[0]
	for _, t := range Types[1:] {
		if s.Get(t) > s.Get(best) {
			best = t
		}
	}
	return best
}

type SpecialSkill struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
	Effect      string `json:"effect" toml:"effect"`
}

type Card struct {
	ID           string        `json:"id"`
	TemplateID   string        `json:"templateId"`
	OwnerID      string        `json:"ownerId"`
	Name         string        `json:"name"`
	Faction      string        `json:"faction,omitempty"`
	Rarity       Rarity        `json:"rarity"`
	Type         Type          `json:"type"`
	Stats        Stats         `json:"stats"`
	Level        int           `json:"level"`
	Experience   int           `json:"experience"`
	SpecialSkill *SpecialSkill `json:"specialSkill,omitempty"`
	IsLocked     bool          `json:"isLocked"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Clone returns a deep copy so engines never mutate caller-owned records.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	if c.SpecialSkill != nil {
		skill := *c.SpecialSkill
		cp.SpecialSkill = &skill
	}
	return &cp
}

// BasePower is the sum of the three core stats, recomputed rather than read
// from TotalPower so ability changes are always reflected.
func (c *Card) BasePower() int {
	return c.Stats.Sum()
}

// Template is a static card design from the catalog.
type Template struct {
	ID      string        `toml:"id"`
	Name    string        `toml:"name"`
	Faction string        `toml:"faction"`
	Rarity  Rarity        `toml:"rarity"`
	Skill   *SpecialSkill `toml:"skill"`
}

// Without returns the collection minus the cards with the given IDs.
func Without(collection []*Card, ids ...string) []*Card {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]*Card, 0, len(collection))
	for _, c := range collection {
		if _, ok := drop[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}
