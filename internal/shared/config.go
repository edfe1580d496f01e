package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Client      ClientConfig      `toml:"client"`
	Cache       CacheConfig       `toml:"cache"`
	Scan        ScanConfig        `toml:"scan"`
}

// CredentialsConfig contains Spotify API credentials.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// DatabaseConfig contains credential store settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ClientConfig contains rate-gate and retry tunables for the API client.
type ClientConfig struct {
	RequestCeiling int     `toml:"request_ceiling"` // admissions per window
	WindowSeconds  int     `toml:"window_seconds"`  // rolling window size
	MaxAttempts    int     `toml:"max_attempts"`    // retry budget per call
	BaseDelayMS    int     `toml:"base_delay_ms"`   // adaptive inter-call delay floor
	MaxWaitSeconds float64 `toml:"max_wait_seconds"` // hard ceiling on server-requested 429 waits
}

// CacheConfig contains per-kind cache TTLs, expressed in minutes.
type CacheConfig struct {
	ArtistTTLMinutes   int `toml:"artist_ttl_minutes"`
	FollowTTLMinutes   int `toml:"follow_ttl_minutes"`
	RelatedTTLMinutes  int `toml:"related_ttl_minutes"`
	AnalysisTTLMinutes int `toml:"analysis_ttl_minutes"`
}

// ScanConfig contains release-scan defaults.
type ScanConfig struct {
	BatchSize  int     `toml:"batch_size"`
	DaysBack   int     `toml:"days_back"`
	MaxArtists int     `toml:"max_artists"` // 0 means uncapped
	RateLimit  float64 `toml:"rate_limit"`  // batches per second
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

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Window returns the rolling rate window as a [time.Duration].
func (c ClientConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// BaseDelay returns the adaptive delay floor as a [time.Duration].
func (c ClientConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}
