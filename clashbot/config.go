package clashbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/generator"
	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/gateways/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Game = cfg.Game.withDefaults()
	return &cfg, nil
}

type Config struct {
	Log    LogConfig             `toml:"log"`
	Bot    BotConfig             `toml:"bot"`
	DB     database.DBConfig     `toml:"db"`
	Spaces SpacesConfig          `toml:"spaces"`
	Game   GameConfig            `toml:"game"`
	Tiers  map[string]TierConfig `toml:"tiers"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type SpacesConfig struct {
	Key        string `toml:"key"`
	Secret     string `toml:"secret"`
	Region     string `toml:"region"`
	Bucket     string `toml:"bucket"`
	CatalogKey string `toml:"catalog_key"`
}

// Enabled reports whether the catalog should come from the bucket.
func (c SpacesConfig) Enabled() bool {
	return c.Bucket != "" && c.CatalogKey != ""
}

// Duration decodes TOML strings such as "30s" or "20m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type TrendConfig struct {
	Faction    string  `toml:"faction"`
	Multiplier float64 `toml:"multiplier"`
}

type GameConfig struct {
	Timezone            string           `toml:"timezone"`
	StartingBalance     int64            `toml:"starting_balance"`
	BattleReward        int64            `toml:"battle_reward"`
	GenerationTick      Duration         `toml:"generation_tick"`
	CatalogPath         string           `toml:"catalog_path"`
	FusionCosts         map[string]int64 `toml:"fusion_costs"`
	EnhanceCostPerLevel int64            `toml:"enhance_cost_per_level"`
	Trend               *TrendConfig     `toml:"trend"`
}

const (
	defaultStartingBalance = 500
	defaultBattleReward    = 50
	defaultGenerationTick  = 30 * time.Second
	defaultCatalogPath     = "catalog.toml"
)

func (g GameConfig) withDefaults() GameConfig {
	if g.Timezone == "" {
		g.Timezone = "UTC"
	}
	if g.StartingBalance <= 0 {
		g.StartingBalance = defaultStartingBalance
	}
	if g.BattleReward < 0 {
		g.BattleReward = 0
	} else if g.BattleReward == 0 {
		g.BattleReward = defaultBattleReward
	}
	if g.GenerationTick.Duration <= 0 {
		g.GenerationTick.Duration = defaultGenerationTick
	}
	if g.CatalogPath == "" {
		g.CatalogPath = defaultCatalogPath
	}
	if g.EnhanceCostPerLevel <= 0 {
		g.EnhanceCostPerLevel = cards.EnhanceCostFactor
	}
	return g
}

// Location resolves the timezone used for the daily generation reset.
func (g GameConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// Costs converts the rarity-name keyed fusion cost table.
func (g GameConfig) Costs() (map[cards.Rarity]int64, error) {
	out := make(map[cards.Rarity]int64, len(g.FusionCosts))
	for name, cost := range g.FusionCosts {
		r, err := cards.ParseRarity(name)
		if err != nil {
			return nil, fmt.Errorf("fusion_costs: %w", err)
		}
		out[r] = cost
	}
	return out, nil
}

// GeneratorTrend is nil when no faction is trending.
func (g GameConfig) GeneratorTrend() *generator.Trend {
	if g.Trend == nil || g.Trend.Faction == "" || g.Trend.Multiplier <= 0 {
		return nil
	}
	return &generator.Trend{Faction: g.Trend.Faction, Multiplier: g.Trend.Multiplier}
}

type TierConfig struct {
	DailyCost            *int64               `toml:"daily_cost"`
	DailyGenerationLimit int                  `toml:"daily_generation_limit"`
	GenerationInterval   Duration             `toml:"generation_interval"`
	Bonus                *generator.TierBonus `toml:"bonus"`
}

// TierTable overlays configured tiers on the default table. Unset fields keep
// their default.
func (c Config) TierTable() (subscription.Table, error) {
	table := subscription.DefaultTable()
	for name, override := range c.Tiers {
		tier, err := subscription.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("tiers: %w", err)
		}
		cfg := table[tier]
		if override.DailyCost != nil {
			if *override.DailyCost < 0 {
				return nil, fmt.Errorf("tiers.%s: daily_cost cannot be negative", name)
			}
			cfg.DailyCost = *override.DailyCost
		}
		if override.DailyGenerationLimit > 0 {
			cfg.DailyGenerationLimit = override.DailyGenerationLimit
		}
		if override.GenerationInterval.Duration > 0 {
			cfg.GenerationInterval = override.GenerationInterval.Duration
		}
		if override.Bonus != nil {
			cfg.Bonus = *override.Bonus
		}
		table[tier] = cfg
	}
	return table, nil
}
