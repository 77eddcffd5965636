package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store engines accepted by STORE_ENGINE.
const (
	EngineSQLite = "sqlite"
	EngineFile   = "file"
	EngineMemory = "memory"
)

type Config struct {
	Addr               string        `yaml:"addr"                 env:"ADDR"                 env-default:":8080"`
	LexiconPath        string        `yaml:"lexicon_path"         env:"LEXICON_PATH"         env-default:"words.json"`
	StoreEngine        string        `yaml:"store_engine"         env:"STORE_ENGINE"         env-default:"sqlite"`
	StorePath          string        `yaml:"store_path"           env:"STORE_PATH"           env-default:"wortdrill.db"`
	LogLevel           string        `yaml:"log_level"            env:"LOG_LEVEL"            env-default:"INFO"`
	Timezone           string        `yaml:"timezone"             env:"TIMEZONE"             env-default:"Local"`
	DailyGoal          int           `yaml:"daily_goal"           env:"DAILY_GOAL"           env-default:"20"`
	StatsRetentionDays int           `yaml:"stats_retention_days" env:"STATS_RETENTION_DAYS" env-default:"365"`
	PhoneticsWorkers   int           `yaml:"phonetics_workers"    env:"PHONETICS_WORKERS"    env-default:"2"`
	PhoneticsDelay     time.Duration `yaml:"phonetics_delay"      env:"PHONETICS_DELAY"      env-default:"200ms"`
	PhoneticsBaseURL   string        `yaml:"phonetics_base_url"   env:"PHONETICS_BASE_URL"   env-default:"https://de.wiktionary.org/api/rest_v1/page/html/"`
}

// Load reads a .env file (if present), then an optional YAML file named by
// CONFIG_PATH, then environment variables. Env wins over YAML, YAML over
// the env-default tags.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	cfg.StoreEngine = strings.ToLower(strings.TrimSpace(cfg.StoreEngine))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.LexiconPath) == "" {
		problems = append(problems, "LEXICON_PATH cannot be empty")
	}

	switch strings.ToLower(c.StoreEngine) {
	case EngineSQLite, EngineFile:
		if strings.TrimSpace(c.StorePath) == "" {
			problems = append(problems, "STORE_PATH cannot be empty for engine "+c.StoreEngine)
		}
	case EngineMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE_ENGINE must be one of sqlite, file, memory (got %q)", c.StoreEngine))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR (got %q)", c.LogLevel))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE is invalid: %v", err))
	}
	if c.DailyGoal < 1 {
		problems = append(problems, "DAILY_GOAL must be at least 1")
	}
	if c.StatsRetentionDays < 0 {
		problems = append(problems, "STATS_RETENTION_DAYS cannot be negative")
	}
	if c.PhoneticsWorkers < 1 {
		problems = append(problems, "PHONETICS_WORKERS must be at least 1")
	}
	if c.PhoneticsDelay < 0 {
		problems = append(problems, "PHONETICS_DELAY cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves TIMEZONE; "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
