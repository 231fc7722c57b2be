package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"simplepoker-server/internal/util"
)

// Config provides configuration for the poker server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Ledger         struct {
		// Driver is either "memory" or "postgres"
		Driver string `yaml:"driver"`
		// OpeningBalance is credited to accounts the ledger has not seen before
		OpeningBalance int `yaml:"openingBalance" envconfig:"opening_balance"`
	}
	Game struct {
		StartingChips int    `yaml:"startingChips" envconfig:"starting_chips"`
		TieBreak      string `yaml:"tieBreak" envconfig:"tie_break"`
		Shuffle       string `yaml:"shuffle"`
	}
	Room struct {
		IdleTimeout     time.Duration `yaml:"idleTimeout" envconfig:"idle_timeout"`
		JanitorInterval time.Duration `yaml:"janitorInterval" envconfig:"janitor_interval"`
	}
	Log struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// DefaultConfig returns the configuration used when no value is provided
func DefaultConfig() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.Ledger.Driver = "memory"
	c.Ledger.OpeningBalance = 100
	c.Game.StartingChips = 100
	c.Game.TieBreak = "split"
	c.Game.Shuffle = "math"
	c.Room.IdleTimeout = time.Minute * 30
	c.Room.JanitorInterval = time.Minute
	c.Log.Level = "info"
	c.Log.Format = "text"

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values are read from the YAML file, then from a .env file, then from the environment.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("SPK_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	} else {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := godotenv.Load(util.Getenv("SPK_ENV_FILE", ".env")); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("spk", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
