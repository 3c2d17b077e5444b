package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Runtime
	Env      string
	LogLevel string

	// Local persistence (localStorage-style snapshot file)
	StorePath string

	// Simulated backend
	BaseDelay   time.Duration
	FailureRate float64
	OpTimeout   time.Duration
	RandomSeed  uint64

	// Card program
	ValidityYears int
	WelcomeBonus  int
}

// fileConfig mirrors Config for the optional YAML overlay file.
type fileConfig struct {
	Env           string   `yaml:"env"`
	LogLevel      string   `yaml:"log_level"`
	StorePath     string   `yaml:"store_path"`
	BaseDelay     string   `yaml:"base_delay"`
	FailureRate   *float64 `yaml:"failure_rate"`
	OpTimeout     string   `yaml:"op_timeout"`
	RandomSeed    *uint64  `yaml:"random_seed"`
	ValidityYears *int     `yaml:"validity_years"`
	WelcomeBonus  *int     `yaml:"welcome_bonus"`
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		StorePath: getEnv("STORE_PATH", "memberclub.json"),

		BaseDelay:   parseDuration(getEnv("API_BASE_DELAY", "800ms"), 800*time.Millisecond),
		FailureRate: parseFloat(getEnv("API_FAILURE_RATE", "0.1"), 0.1),
		OpTimeout:   parseDuration(getEnv("API_OP_TIMEOUT", "5s"), 5*time.Second),
		RandomSeed:  parseUint(getEnv("RANDOM_SEED", "0"), 0),

		ValidityYears: parseInt(getEnv("CARD_VALIDITY_YEARS", "2"), 2),
		WelcomeBonus:  parseInt(getEnv("WELCOME_BONUS", "50"), 50),
	}

	// Optional YAML overlay, values win over env defaults.
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			log.Printf("Ignoring config file %s: %v", path, err)
		}
	}

	return cfg
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.Env != "" {
		c.Env = fc.Env
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.StorePath != "" {
		c.StorePath = fc.StorePath
	}
	if fc.BaseDelay != "" {
		c.BaseDelay = parseDuration(fc.BaseDelay, c.BaseDelay)
	}
	if fc.FailureRate != nil {
		c.FailureRate = *fc.FailureRate
	}
	if fc.OpTimeout != "" {
		c.OpTimeout = parseDuration(fc.OpTimeout, c.OpTimeout)
	}
	if fc.RandomSeed != nil {
		c.RandomSeed = *fc.RandomSeed
	}
	if fc.ValidityYears != nil {
		c.ValidityYears = *fc.ValidityYears
	}
	if fc.WelcomeBonus != nil {
		c.WelcomeBonus = *fc.WelcomeBonus
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseUint(s string, defaultValue uint64) uint64 {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseFloat(s string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
