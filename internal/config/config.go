package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"utsulog/internal/domain"
)

const (
	// DefaultAPIURL is the public search API
	DefaultAPIURL = "https://utsulog.in/api"

	MinDebounce = 50 * time.Millisecond
	MaxDebounce = 5 * time.Second
)

// Environment variables that override the config file
const (
	EnvAPIURL   = "UTSULOG_API_URL"
	EnvEmojiURL = "UTSULOG_EMOJI_URL"
	EnvDebounce = "UTSULOG_DEBOUNCE"
	EnvLogLevel = "UTSULOG_LOG_LEVEL"
	EnvLogFile  = "UTSULOG_LOG_FILE"
)

// Config represents the application configuration
type Config struct {
	Version         int            `toml:"version"`
	APIURL          string         `toml:"api_url"`
	EmojiURL        string         `toml:"emoji_url,omitempty"`
	Debounce        Duration       `toml:"debounce"`
	RequestTimeout  Duration       `toml:"request_timeout"`
	ScrollThreshold int            `toml:"scroll_threshold"` // rows from the bottom
	LogFile         string         `toml:"log_file,omitempty"`
	LogLevel        string         `toml:"log_level"`
	Defaults        SearchDefaults `toml:"defaults"`
	UISettings      UISettings     `toml:"ui"`
}

// SearchDefaults are the filter values a new session starts with
type SearchDefaults struct {
	SortOrder   string `toml:"sort_order"`
	MessageType string `toml:"message_type"`
	Exact       bool   `toml:"exact"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowThumbnailURL bool   `toml:"show_thumbnail_url"`
	DateFormat       string `toml:"date_format"`
}

// Duration wraps time.Duration so it reads and writes as "300ms" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// ResolvedEmojiURL returns the emoji map location, defaulting to {api_url}/emojis.json
func (c *Config) ResolvedEmojiURL() string {
	if c.EmojiURL != "" {
		return c.EmojiURL
	}
	return strings.TrimRight(c.APIURL, "/") + "/emojis.json"
}

// InitialCriteria builds the empty criteria a session starts with
func (c *Config) InitialCriteria() domain.SearchCriteria {
	criteria := domain.DefaultCriteria()
	if order, err := domain.ParseSortOrder(c.Defaults.SortOrder); err == nil {
		criteria.SortOrder = order
	}
	if mt, err := domain.ParseMessageType(c.Defaults.MessageType); err == nil {
		criteria.MessageType = mt
	}
	criteria.ExactMatch = c.Defaults.Exact
	return criteria
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	var errs []error

	if err := validateURL("api_url", c.APIURL); err != nil {
		errs = append(errs, err)
	}
	if c.EmojiURL != "" {
		if err := validateURL("emoji_url", c.EmojiURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Debounce.Duration < MinDebounce || c.Debounce.Duration > MaxDebounce {
		errs = append(errs, fmt.Errorf("debounce must be between %s and %s, got %s", MinDebounce, MaxDebounce, c.Debounce.Duration))
	}
	if c.RequestTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout.Duration))
	}
	if c.ScrollThreshold < 0 {
		errs = append(errs, fmt.Errorf("scroll_threshold must not be negative, got %d", c.ScrollThreshold))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if _, err := domain.ParseSortOrder(c.Defaults.SortOrder); err != nil {
		errs = append(errs, fmt.Errorf("defaults.sort_order: %w", err))
	}
	if _, err := domain.ParseMessageType(c.Defaults.MessageType); err != nil {
		errs = append(errs, fmt.Errorf("defaults.message_type: %w", err))
	}

	return errors.Join(errs...)
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", key, raw)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables.
// A .env file in the working directory is loaded first; variables already
// set in the process environment win over it.
func (c *Config) ApplyEnv() error {
	// Missing .env is normal
	_ = godotenv.Load()

	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvEmojiURL); v != "" {
		c.EmojiURL = v
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := parseDurationOrMillis(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		c.Debounce = Duration{d}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	return nil
}

// parseDurationOrMillis accepts "300ms" style durations or a bare number of milliseconds
func parseDurationOrMillis(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/utsulog/config.toml (or the platform equivalent)
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("locating config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "utsulog", "config.toml"), nil
}

// NewConfigService creates a config service reading and writing path.
// An empty path selects DefaultConfigPath.
func NewConfigService(path string) (ConfigService, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return &configService{filePath: path}, nil
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, writing a default one if none exists
func (cs *configService) Load() (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return nil, err
		}
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:         1,
		APIURL:          DefaultAPIURL,
		Debounce:        Duration{300 * time.Millisecond},
		RequestTimeout:  Duration{10 * time.Second},
		ScrollThreshold: 3,
		LogLevel:        "info",
		Defaults: SearchDefaults{
			SortOrder:   string(domain.SortDescending),
			MessageType: string(domain.MessageAll),
		},
		UISettings: UISettings{
			DateFormat: "2006-01-02 15:04",
		},
	}
}

// DefaultLogFile returns the log location used when log_file is unset
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "utsulog.log"
	}
	return filepath.Join(dir, "utsulog", "utsulog.log")
}
