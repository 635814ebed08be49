package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/freshsim/internal/inventory"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	// Truncate the output tables before a run writes to them.
	ResetTables bool `mapstructure:"reset_tables"`
}

// DSN builds a pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type Config struct {
	Seed        int64     `mapstructure:"seed"`
	Hours       int       `mapstructure:"hours"`
	Restaurants int       `mapstructure:"restaurants"`
	StartDate   time.Time `mapstructure:"start_date"`
	CityName    string    `mapstructure:"city_name"` // empty draws a random town per restaurant

	// Per-restaurant variation applied by the factory to demand and stock levels.
	DemandJitter float64 `mapstructure:"demand_jitter"`

	Prices      inventory.PriceTable     `mapstructure:"prices"`
	Ingredients []inventory.LedgerConfig `mapstructure:"-"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	Database          DatabaseConfig     `mapstructure:"database"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`

	ShowProgress bool `mapstructure:"show_progress"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", 42)
	v.SetDefault("hours", 24*7*4)
	v.SetDefault("restaurants", 5)
	v.SetDefault("start_date", "2024-01-01T00:00:00Z")
	v.SetDefault("city_name", "London")
	v.SetDefault("demand_jitter", 0.2)
	v.SetDefault("output_format", "console")
	v.SetDefault("output_folder", "freshsim")
	v.SetDefault("output_destination", "local")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("show_progress", true)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.reset_tables", true)
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigWith(viper.GetViper(), cfgFile)
}

// LoadConfigWith reads cfgFile (if any) into v and decodes the result.
func LoadConfigWith(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("FRESHSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	ingredients, err := decodeIngredients(v.Get("ingredients"))
	if err != nil {
		return nil, err
	}
	config.Ingredients = ingredients

	config.applyIngredientDefaults()
	return &config, nil
}

// decodeIngredients layers each configured ingredient over the ledger defaults, so a
// config entry only needs the fields it changes.
func decodeIngredients(raw interface{}) ([]inventory.LedgerConfig, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("ingredients must be a list, got %T", raw)
	}

	ingredients := make([]inventory.LedgerConfig, 0, len(entries))
	for i, entry := range entries {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("ingredient %d must be a map, got %T", i, entry)
		}
		name, _ := fields["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("ingredient %d has no name", i)
		}

		ledgerConfig := inventory.DefaultLedgerConfig(name)
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &ledgerConfig,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(fields); err != nil {
			return nil, fmt.Errorf("unable to decode ingredient %s: %w", name, err)
		}
		// viper lowercases the keys of the price table
		ledgerConfig.Name = strings.ToLower(name)
		ingredients = append(ingredients, ledgerConfig)
	}
	return ingredients, nil
}

// applyIngredientDefaults fills in a lemon ledger and price table when none are configured.
func (cfg *Config) applyIngredientDefaults() {
	if len(cfg.Prices) == 0 {
		cfg.Prices = inventory.DefaultPrices()
	}
	if len(cfg.Ingredients) == 0 {
		lemon := inventory.DefaultLedgerConfig("lemon")
		lemon.AvgPoundsConsumedPerHour = 0.5
		lemon.InitialStock = 40
		lemon.WillingToBuy = true
		lemon.WillingToSell = true
		lemon.BuyWeight = 15
		lemon.SellWeight = 30
		lemon.MaxBuyPrice = 1.8
		lemon.PreferredPurchaseAmount = 10
		lemon.DollarsPerHourFromIngredient = 4
		cfg.Ingredients = []inventory.LedgerConfig{lemon}
	}
}

// Validate reports configuration that cannot produce a run.
func (cfg *Config) Validate() error {
	if cfg.Hours <= 0 {
		return fmt.Errorf("hours must be positive, got %d", cfg.Hours)
	}
	if cfg.Restaurants <= 0 {
		return fmt.Errorf("restaurants must be positive, got %d", cfg.Restaurants)
	}
	for _, ing := range cfg.Ingredients {
		if _, err := cfg.Prices.Lookup(ing.Name); err != nil {
			return err
		}
		if ing.ExpirationTime <= 0 {
			return fmt.Errorf("ingredient %s: expiration_time must be positive", ing.Name)
		}
	}
	return nil
}
