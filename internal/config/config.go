// ABOUTME: Configuration loading and parsing for the sazon chat client
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/sazon-chat/internal/i18n"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Store drivers accepted in store.driver
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
	DriverMemory  = "memory"
)

// Env vars consulted during loading
const (
	EnvConfig   = "SAZON_CONFIG"
	EnvAgentURL = "SAZON_AGENT_URL"
)

// Config represents the complete client configuration
type Config struct {
	Agent   AgentConfig   `yaml:"agent" toml:"agent"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
	Locale  string        `yaml:"locale" toml:"locale"`
	Loading LoadingConfig `yaml:"loading" toml:"loading"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// AgentConfig holds the remote agent endpoint
type AgentConfig struct {
	URL     string        `yaml:"url" toml:"url"`
	Timeout time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// StoreConfig selects where the session id is persisted
type StoreConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// LoadingConfig holds progress feedback timing
type LoadingConfig struct {
	Interval time.Duration `yaml:"-" toml:"-"`

	IntervalRaw string `yaml:"interval" toml:"interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// File receives log output; empty means stderr
	File string `yaml:"file" toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			URL:        "http://localhost:8000",
			Timeout:    60 * time.Second,
			TimeoutRaw: "60s",
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   DefaultStorePath(),
		},
		Loading: LoadingConfig{
			Interval:    1800 * time.Millisecond,
			IntervalRaw: "1800ms",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultStorePath returns $XDG_DATA_HOME/sazon/client.db, falling back to
// ~/.local/share/sazon/client.db.
func DefaultStorePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "sazon", "client.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sazon", "client.db")
	}
	return filepath.Join(home, ".local", "share", "sazon", "client.db")
}

// ResolvePath returns the config file to read and whether the caller asked
// for it explicitly (via SAZON_CONFIG). Order:
//
//  1. $SAZON_CONFIG
//  2. $XDG_CONFIG_HOME/sazon/client.yaml
//  3. ~/.config/sazon/client.yaml
func ResolvePath() (path string, explicit bool) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sazon", "client.yaml"), false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "sazon", "client.yaml"), false
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return finish(cfg)
}

// LoadOptional behaves like Load but returns Default (with env overrides
// applied) when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return finish(Default())
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return Load(path)
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnv()

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.Store.Path = expandHome(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if u := os.Getenv(EnvAgentURL); u != "" {
		c.Agent.URL = u
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error wrapping ErrInvalid for the first failure encountered.
func (c *Config) Validate() error {
	if c.Agent.URL == "" {
		return fmt.Errorf("%w: agent.url is required", ErrInvalid)
	}
	u, err := url.Parse(c.Agent.URL)
	if err != nil {
		return fmt.Errorf("%w: agent.url is not a valid URL: %v", ErrInvalid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: agent.url must use http or https scheme", ErrInvalid)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: agent.url has no host", ErrInvalid)
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("%w: agent.timeout must be positive", ErrInvalid)
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverSQLite3:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for driver %q", ErrInvalid, c.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: store.driver must be one of sqlite, sqlite3, memory", ErrInvalid)
	}

	if c.Locale != "" {
		if _, ok := i18n.Parse(c.Locale); !ok {
			return fmt.Errorf("%w: locale %q is not supported", ErrInvalid, c.Locale)
		}
	}

	if c.Loading.Interval <= 0 {
		return fmt.Errorf("%w: loading.interval must be positive", ErrInvalid)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error", ErrInvalid)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be text or json", ErrInvalid)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Agent.TimeoutRaw != "" {
		cfg.Agent.Timeout, err = time.ParseDuration(cfg.Agent.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing agent.timeout %q: %w", cfg.Agent.TimeoutRaw, err)
		}
	}

	if cfg.Loading.IntervalRaw != "" {
		cfg.Loading.Interval, err = time.ParseDuration(cfg.Loading.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing loading.interval %q: %w", cfg.Loading.IntervalRaw, err)
		}
	}

	return nil
}
