package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrisdamba/freshsim/internal/inventory"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
seed: 7
hours: 72
restaurants: 3
start_date: "2024-03-01T00:00:00Z"
prices:
  lemon:
    high: 2.0
    low: 1.0
  basil:
    high: 6.0
    low: 2.5
ingredients:
  - name: basil
    expiration_time: 24
    willing_to_buy: true
    buy_weight: 4
    restock:
      every_hours: 24
      amount_pounds: 10
  - name: lemon
output_format: json
output_path: /tmp/freshsim
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 72, cfg.Hours)
	assert.Equal(t, 3, cfg.Restaurants)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate.UTC())
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, inventory.PriceRange{High: 6.0, Low: 2.5}, cfg.Prices["basil"])

	require.Len(t, cfg.Ingredients, 2)
	basil := cfg.Ingredients[0]
	assert.Equal(t, "basil", basil.Name)
	assert.Equal(t, 24.0, basil.ExpirationTime)
	assert.True(t, basil.WillingToBuy)
	assert.Equal(t, 4.0, basil.BuyWeight)
	assert.Equal(t, 24, basil.Restock.EveryHours)
	assert.Equal(t, 10.0, basil.Restock.AmountPounds)
	// unset fields keep the ledger defaults
	assert.Equal(t, 0.1, basil.AvgPoundsConsumedPerHour)

	lemon := cfg.Ingredients[1]
	assert.Equal(t, inventory.DefaultLedgerConfig("lemon"), lemon)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 24*7*4, cfg.Hours)
	assert.Equal(t, "console", cfg.OutputFormat)
	assert.True(t, cfg.Database.ResetTables)
	assert.Equal(t, inventory.DefaultPrices(), cfg.Prices)
	require.Len(t, cfg.Ingredients, 1)
	assert.Equal(t, "lemon", cfg.Ingredients[0].Name)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfigWith(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfigMixedCaseIngredient(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), writeConfig(t, `
prices:
  Tomato:
    high: 3
    low: 1
ingredients:
  - name: Tomato
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Ingredients, 1)
	assert.Equal(t, "tomato", cfg.Ingredients[0].Name)
	pr, err := cfg.Prices.Lookup("Tomato")
	require.NoError(t, err)
	assert.Equal(t, inventory.PriceRange{High: 3, Low: 1}, pr)
}

func TestValidateRejectsUnpricedIngredient(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), writeConfig(t, `
ingredients:
  - name: saffron
`))
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Validate(), inventory.ErrUnknownIngredient)
}

func TestValidateRejectsEmptyRun(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), "")
	require.NoError(t, err)

	cfg.Hours = 0
	assert.Error(t, cfg.Validate())

	cfg.Hours = 1
	cfg.Restaurants = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "sim", Password: "pw", DBName: "fresh", SSLMode: "disable"}
	assert.Equal(t, "postgres://sim:pw@db:5432/fresh?sslmode=disable", d.DSN())
}
