package clashbot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/subscription"
)

const sampleConfig = `
[log]
level = "debug"

[bot]
token = "token"

[db]
host = "localhost"
port = 5432
database = "cardclash"

[game]
timezone = "Europe/Berlin"
generation_tick = "15s"

[game.fusion_costs]
common = 150
epic = 0

[game.trend]
faction = "ember"
multiplier = 1.5

[tiers.pro]
daily_cost = 25
generation_interval = "45m"

[tiers.free.bonus]
rare = 1.0
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "token", cfg.Bot.Token)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 15*time.Second, cfg.Game.GenerationTick.Duration)

	// Defaults fill what the file leaves out.
	assert.Equal(t, int64(defaultStartingBalance), cfg.Game.StartingBalance)
	assert.Equal(t, int64(defaultBattleReward), cfg.Game.BattleReward)
	assert.Equal(t, defaultCatalogPath, cfg.Game.CatalogPath)
	assert.Equal(t, int64(cards.EnhanceCostFactor), cfg.Game.EnhanceCostPerLevel)

	loc, err := cfg.Game.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	costs, err := cfg.Game.Costs()
	require.NoError(t, err)
	assert.Equal(t, map[cards.Rarity]int64{cards.Common: 150, cards.Epic: 0}, costs)

	trend := cfg.Game.GeneratorTrend()
	require.NotNil(t, trend)
	assert.Equal(t, "ember", trend.Faction)
}

func TestTierTable(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	table, err := cfg.TierTable()
	require.NoError(t, err)

	pro := table[subscription.Pro]
	assert.Equal(t, int64(25), pro.DailyCost)
	assert.Equal(t, 45*time.Minute, pro.GenerationInterval)
	assert.Equal(t, 10, pro.DailyGenerationLimit)
	assert.Equal(t, 5.0, pro.Bonus.Rare)

	free := table[subscription.Free]
	assert.Equal(t, 1.0, free.Bonus.Rare)
	assert.Zero(t, free.DailyCost)

	assert.Equal(t, subscription.DefaultTable()[subscription.Ultra], table[subscription.Ultra])
}

func TestConfigRejectsBadValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[game]\ngeneration_tick = \"soon\"\n"))
	require.Error(t, err)

	cfg, err := LoadConfig(writeConfig(t, "[tiers.platinum]\ndaily_cost = 5\n"))
	require.NoError(t, err)
	_, err = cfg.TierTable()
	require.Error(t, err)

	cfg, err = LoadConfig(writeConfig(t, "[game.fusion_costs]\nmythic = 5\n"))
	require.NoError(t, err)
	_, err = cfg.Game.Costs()
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
