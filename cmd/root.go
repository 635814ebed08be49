package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/chrisdamba/freshsim/internal/simulator"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "freshsim",
	Short: "Simulates perishable ingredient inventories for restaurants",
	Long: `freshsim is a CLI tool that simulates hour by hour how restaurants stock, consume, waste and
trade perishable ingredients, and streams the resulting ledger snapshots and trades to the
console, files, Kafka or Postgres.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sim := simulator.NewSimulator(cfg)
		if err := sim.Run(ctx); err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return nil
	},
}

// flag name -> config key
var flagKeys = map[string]string{
	"seed":              "seed",
	"hours":             "hours",
	"restaurants":       "restaurants",
	"start-date":        "start_date",
	"output-format":     "output_format",
	"output-path":       "output_path",
	"output-folder":     "output_folder",
	"kafka-enabled":     "kafka_enabled",
	"kafka-broker-list": "kafka_broker_list",
	"show-progress":     "show_progress",
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.freshsim.yaml)")

	rootCmd.Flags().Int64("seed", 42, "Random seed for simulation")
	rootCmd.Flags().Int("hours", 24*7*4, "Number of hours to simulate")
	rootCmd.Flags().Int("restaurants", 5, "Number of restaurants")
	rootCmd.Flags().String("start-date", "2024-01-01T00:00:00Z", "Wall-clock time of hour 0 (RFC3339)")
	rootCmd.Flags().String("output-format", models.OutputFormatConsole, "Output format: console, json, csv, parquet, sqlite or postgres")
	rootCmd.Flags().String("output-path", "", "Base directory for file outputs")
	rootCmd.Flags().String("output-folder", "freshsim", "Folder under the output path")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().Bool("show-progress", true, "Show a progress bar")

	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, rootCmd.Flags().Lookup(flag)); err != nil {
			log.Fatalf("failed to bind flag %s: %v", flag, err)
		}
	}
}

func initConfig() {
	// FRESHSIM_* variables may come from a local .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error loading .env file:", err)
	}

	if cfgFile != "" {
		// LoadConfig reads an explicit file itself
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(".freshsim")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
