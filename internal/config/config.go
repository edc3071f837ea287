// Package config loads todosum settings from a YAML file, an optional .env
// file and the environment, in increasing order of precedence. Variables
// already set in the environment are never overridden by .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".todosum"
	fileName = "config.yaml"

	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend  string         `yaml:"backend" env:"TODOSUM_BACKEND" env-default:"rest"`
	Remote   RemoteConfig   `yaml:"remote"`
	Postgres PostgresConfig `yaml:"postgres"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
	Dev      DevConfig      `yaml:"dev"`
}

// RemoteConfig points at the hosted REST API and functions endpoint.
type RemoteConfig struct {
	URL      string        `yaml:"url" env:"SUPABASE_URL"`
	AnonKey  string        `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	Table    string        `yaml:"table" env:"TODOSUM_TABLE" env-default:"todos"`
	Function string        `yaml:"function" env:"TODOSUM_SUMMARY_FUNCTION" env-default:"summarize-todos"`
	Timeout  time.Duration `yaml:"timeout" env:"TODOSUM_TIMEOUT" env-default:"10s"`
}

type PostgresConfig struct {
	DSN     string        `yaml:"dsn" env:"TODOSUM_POSTGRES_DSN"`
	Table   string        `yaml:"table" env-default:"todos"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type UIConfig struct {
	Theme      string `yaml:"theme" env:"TODOSUM_THEME" env-default:"classic"`
	DateFormat string `yaml:"date_format" env-default:"Jan 2, 2006"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"TODOSUM_LOG_LEVEL" env-default:"info"`
	// File receives logs while the interactive UI owns the terminal.
	File string `yaml:"file" env:"TODOSUM_LOG_FILE"`
}

// DevConfig configures the local stand-in backend.
type DevConfig struct {
	Addr       string `yaml:"addr" env:"TODOSUM_DEV_ADDR" env-default:"127.0.0.1:54321"`
	DBPath     string `yaml:"db_path" env:"TODOSUM_DEV_DB" env-default:"todosum-dev.db"`
	WebhookURL string `yaml:"webhook_url" env:"SLACK_WEBHOOK_URL"`
	JWTSecret  string `yaml:"jwt_secret" env:"TODOSUM_DEV_JWT_SECRET"`
}

// Dir returns ~/.todosum.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns TODOSUM_CONFIG or ~/.todosum/config.yaml.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("TODOSUM_CONFIG")); p != "" {
		return p
	}
	dir, err := Dir()
	if err != nil {
		return fileName
	}
	return filepath.Join(dir, fileName)
}

// Load reads path (DefaultPath when empty). A missing file is not an error:
// defaults and the environment still apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown backend %q (want %s or %s)", c.Backend, BackendREST, BackendPostgres)
	}
	if c.Remote.Timeout < 0 {
		return errors.New("config: remote.timeout must not be negative")
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	c.Remote.AnonKey = mask(c.Remote.AnonKey)
	c.Postgres.DSN = mask(c.Postgres.DSN)
	c.Dev.WebhookURL = mask(c.Dev.WebhookURL)
	c.Dev.JWTSecret = mask(c.Dev.JWTSecret)
	return c
}

func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes a starter config to path. It refuses to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	b, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	header := "# todosum configuration\n# Environment variables override these values.\n"
	if err := os.WriteFile(path, append([]byte(header), b...), 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}
