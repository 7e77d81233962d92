// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Realtime RealtimeConfig `toml:"realtime"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// ServerConfig holds the room server endpoints.
type ServerConfig struct {
	APIURL  string `toml:"api_url"`  // e.g., "https://api.cmon.rsvp"
	SiteURL string `toml:"site_url"` // base for share links, e.g., "https://cmon.rsvp"
}

// RealtimeConfig holds socket and edit-stream tuning.
type RealtimeConfig struct {
	AbsentDebounceMS int `toml:"absent_debounce_ms"` // free-text absence reason debounce
	ReconnectBaseMS  int `toml:"reconnect_base_ms"`  // first reconnect delay
	ReconnectMaxMS   int `toml:"reconnect_max_ms"`   // backoff cap
}

// LLMConfig holds optional LLM provider settings for the announce command.
type LLMConfig struct {
	Provider string `toml:"provider"` // "", "openai", "ollama"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DraftPath string `toml:"draft_path"` // create-flow recovery cache
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			APIURL:  "http://localhost:3632",
			SiteURL: "http://localhost:5173",
		},
		Realtime: RealtimeConfig{
			AbsentDebounceMS: 500,
			ReconnectBaseMS:  500,
			ReconnectMaxMS:   30000,
		},
		LLM: LLMConfig{
			Provider: "", // plain template announcement unless configured
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DraftPath: defaultDraftPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDraftPath returns the default draft database path.
func defaultDraftPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quorum.db"
	}
	return filepath.Join(home, ".local", "share", "quorum", "quorum.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "quorum", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DraftPath = expandPath(cfg.Storage.DraftPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveTo writes the configuration as TOML to the given path, creating
// parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if v := os.Getenv("QUORUM_API_URL"); v != "" {
		cfg.Server.APIURL = v
	}
	if v := os.Getenv("QUORUM_SITE_URL"); v != "" {
		cfg.Server.SiteURL = v
	}

	// Realtime overrides
	if v := os.Getenv("QUORUM_ABSENT_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Realtime.AbsentDebounceMS = n
		}
	}

	// LLM overrides
	if v := os.Getenv("QUORUM_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("QUORUM_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("QUORUM_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	// Storage overrides
	if v := os.Getenv("QUORUM_DRAFT_PATH"); v != "" {
		cfg.Storage.DraftPath = v
	}

	// UI overrides
	if v := os.Getenv("QUORUM_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateURL(c.Server.APIURL, "api_url"); err != nil {
		return err
	}
	if err := validateURL(c.Server.SiteURL, "site_url"); err != nil {
		return err
	}
	if c.Realtime.AbsentDebounceMS <= 0 {
		return errors.New("absent_debounce_ms must be positive")
	}
	if c.Realtime.ReconnectBaseMS <= 0 {
		return errors.New("reconnect_base_ms must be positive")
	}
	if c.Realtime.ReconnectMaxMS < c.Realtime.ReconnectBaseMS {
		return errors.New("reconnect_max_ms must be at least reconnect_base_ms")
	}
	if c.Storage.DraftPath == "" {
		return errors.New("draft_path must be set")
	}
	return nil
}

// validateURL checks that a URL is absolute http(s).
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, raw)
	}
	return nil
}

// WebSocketURL derives the ws(s) endpoint for a room from the API URL.
func (c *Config) WebSocketURL(roomUID string) string {
	u, err := url.Parse(c.Server.APIURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/ws/" + roomUID
	return u.String()
}

// ShareURL is the link participants open to join the room.
func (c *Config) ShareURL(roomUID string) string {
	return strings.TrimRight(c.Server.SiteURL, "/") + "/" + roomUID
}
