package cards

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// RarityInfo is the static row for one rarity.
type RarityInfo struct {
	Power      Range
	Stat       Range
	BaseWeight float64
	FusionCost int64
}

var rarityTable = map[Rarity]RarityInfo{
	Common:    {Power: Range{20, 45}, Stat: Range{3, 20}, BaseWeight: 70, FusionCost: 100},
	Rare:      {Power: Range{40, 80}, Stat: Range{5, 35}, BaseWeight: 22, FusionCost: 300},
	Epic:      {Power: Range{70, 120}, Stat: Range{15, 50}, BaseWeight: 6, FusionCost: 800},
	Legendary: {Power: Range{110, 170}, Stat: Range{30, 70}, BaseWeight: 2},
	Unique:    {Power: Range{160, 230}, Stat: Range{45, 90}},
	Commander: {Power: Range{220, 300}, Stat: Range{60, 110}},
}

func Info(r Rarity) RarityInfo {
	return rarityTable[r]
}

func PowerRange(r Rarity) Range {
	return rarityTable[r].Power
}

func StatRange(r Rarity) Range {
	return rarityTable[r].Stat
}

// FusionCost is the currency needed to fuse three cards of the given rarity.
// Zero means the rarity cannot be fused.
func FusionCost(r Rarity) int64 {
	return rarityTable[r].FusionCost
}

// BaseWeights returns a fresh copy of the default gacha table.
func BaseWeights() Weights {
	w := make(Weights, len(Rarities))
	for _, r := range Rarities {
		w[r] = rarityTable[r].BaseWeight
	}
	return w
}

// Weights maps each rarity to a non-negative draw weight. The total need not be 100.
type Weights map[Rarity]float64

func (w Weights) Total() float64 {
	var total float64
	for _, r := range Rarities {
		if w[r] > 0 {
			total += w[r]
		}
	}
	return total
}

func (w Weights) Clone() Weights {
	cp := make(Weights, len(w))
	for k, v := range w {
		cp[k] = v
	}
	return cp
}

// Shift moves an additive bonus into a rarity and takes it out of common.
// Common is floored at zero.
func (w Weights) Shift(r Rarity, bonus float64) {
	if bonus == 0 {
		return
	}
	w[r] += bonus
	if w[r] < 0 {
		w[r] = 0
	}
	if r == Common {
		return
	}
	w[Common] -= bonus
	if w[Common] < 0 {
		w[Common] = 0
	}
}

// beats lists, for each type, the type it has advantage over.
var beats = map[Type]Type{
	Efficiency: Function,
	Function:   Creativity,
	Creativity: Efficiency,
}

// HasAdvantage reports whether attacker beats defender in the type cycle
// EFFICIENCY > FUNCTION > CREATIVITY > EFFICIENCY.
func HasAdvantage(attacker, defender Type) bool {
	target, ok := beats[attacker]
	return ok && target == defender
}

const AdvantageMultiplier = 1.3

const (
	MaxLevel          = 10
	FusionMaterials   = 3
	EnhanceMaterials  = 10
	EnhanceCostFactor = 50
)
