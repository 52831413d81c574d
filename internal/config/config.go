// Package config loads the horas configuration from a YAML file, the
// environment and an optional .env file. The loaded value is immutable.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/example/horas/internal/core/derived"
	"github.com/example/horas/internal/db"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel string   `yaml:"log_level" env:"HORAS_LOG_LEVEL" env-default:"INFO"`
	Year     int      `yaml:"year" env:"HORAS_YEAR"` // operating year, defaults to the current one
	Database Database `yaml:"database"`
	HTTP     HTTP     `yaml:"http"`

	// Operator is the collaborator the CLI acts as.
	Operator int64 `yaml:"operator,omitempty" env:"HORAS_OPERATOR"`

	// RecordCodes overrides the recognized work order codes. Empty means
	// the default codes of the operating year.
	RecordCodes []RecordCode `yaml:"record_codes,omitempty"`
}

// Database selects the store.
type Database struct {
	Driver string `yaml:"driver" env:"HORAS_DB_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn" env:"HORAS_DB_DSN"` // empty means ~/.horas/horas.db for sqlite
}

// HTTP configures the API server.
type HTTP struct {
	Address       string `yaml:"address" env:"HORAS_HTTP_ADDRESS" env-default:":8080"`
	SessionSecret string `yaml:"session_secret" env:"HORAS_SESSION_SECRET"`
}

// RecordCode is one row of the recognized-code policy.
type RecordCode struct {
	Code    string `yaml:"code"`
	Kind    string `yaml:"kind"`              // service | consultation
	Subtype string `yaml:"subtype,omitempty"` // consulting | training
}

// MinSessionSecret is the shortest accepted cookie signing key.
const MinSessionSecret = 16

// Load reads path (when it exists), then the environment. A .env file in
// the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration written by `horas init`.
func Default() *Config {
	cfg := &Config{
		LogLevel: "INFO",
		Year:     time.Now().Year(),
		Database: Database{Driver: db.DriverSQLite},
		HTTP:     HTTP{Address: ":8080"},
	}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	if c.Year == 0 {
		c.Year = time.Now().Year()
	}
	if c.Database.Driver == "" {
		c.Database.Driver = db.DriverSQLite
	}
	if c.Database.DSN == "" && c.Database.Driver == db.DriverSQLite {
		path, err := db.DefaultPath()
		if err != nil {
			return err
		}
		c.Database.DSN = path
	}
	return nil
}

// Validate checks every value that can be checked without I/O.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Year < 2000 || c.Year > 2100 {
		return fmt.Errorf("operating year %d out of range", c.Year)
	}
	switch c.Database.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
	}
	if s := c.HTTP.SessionSecret; s != "" && len(s) < MinSessionSecret {
		return fmt.Errorf("session secret must be at least %d bytes", MinSessionSecret)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy builds the recognized-code policy.
func (c *Config) Policy() (derived.Policy, error) {
	if len(c.RecordCodes) == 0 {
		return derived.NewPolicy(derived.DefaultRules(c.Year))
	}
	rules := make(map[string]derived.Rule, len(c.RecordCodes))
	for _, rc := range c.RecordCodes {
		if _, dup := rules[rc.Code]; dup {
			return derived.Policy{}, fmt.Errorf("record code %s listed twice", rc.Code)
		}
		rules[rc.Code] = derived.Rule{Kind: derived.Kind(rc.Kind), Subtype: rc.Subtype}
	}
	return derived.NewPolicy(rules)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.horas/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".horas", "config.yaml"), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
