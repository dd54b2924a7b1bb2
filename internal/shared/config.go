package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Debug     bool            `toml:"debug"`
	Proxy     ProxyConfig     `toml:"proxy"`
	Search    SearchConfig    `toml:"search"`
	Playlist  PlaylistConfig  `toml:"playlist"`
	Reconcile ReconcileConfig `toml:"reconcile"`
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
}

// ProxyConfig contains settings for the YouTube Music proxy service.
type ProxyConfig struct {
	URL               string  `toml:"url"`
	AuthFile          string  `toml:"auth_file"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SearchConfig contains catalog search settings.
type SearchConfig struct {
	Limit int `toml:"limit"`
}

// PlaylistConfig contains playlist read limits.
type PlaylistConfig struct {
	ListLimit  int `toml:"list_limit"`
	EntryLimit int `toml:"entry_limit"`
}

// ReconcileConfig controls how appended songs are located after a write.
// The remote service acknowledges an append before the row is readable, so
// reads are retried poll_attempts times with poll_delay_ms between them.
type ReconcileConfig struct {
	PollAttempts int `toml:"poll_attempts"`
	PollDelayMS  int `toml:"poll_delay_ms"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays environment variables onto the config. YTMUSIC_AUTH_FILE
// replaces proxy.auth_file and YTMUSIC_DEBUG enables debug output.
func (c *Config) ApplyEnv() {
	if path := os.Getenv("YTMUSIC_AUTH_FILE"); path != "" {
		c.Proxy.AuthFile = path
	}

	if TruthyString(os.Getenv("YTMUSIC_DEBUG")) {
		c.Debug = true
	}
}

// TruthyString reports whether s spells an affirmative flag value.
func TruthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
