package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "releasehub.db" {
			t.Errorf("expected database path releasehub.db, got %s", config.Database.Path)
		}
		if config.Client.RequestCeiling != 80 {
			t.Errorf("expected request ceiling 80, got %d", config.Client.RequestCeiling)
		}
		if config.Client.WindowSeconds != 30 {
			t.Errorf("expected window 30s, got %d", config.Client.WindowSeconds)
		}
		if config.Client.MaxAttempts != 5 {
			t.Errorf("expected 5 attempts, got %d", config.Client.MaxAttempts)
		}
		if config.Cache.ArtistTTLMinutes != 360 {
			t.Errorf("expected artist TTL 360 minutes, got %d", config.Cache.ArtistTTLMinutes)
		}
		if config.Scan.BatchSize != 5 {
			t.Errorf("expected scan batch size 5, got %d", config.Scan.BatchSize)
		}
		if config.Scan.DaysBack != 7 {
			t.Errorf("expected scan lookback 7 days, got %d", config.Scan.DaysBack)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[client]
request_ceiling = 40
window_seconds = 15
max_attempts = 3
base_delay_ms = 250
max_wait_seconds = 10.5

[scan]
batch_size = 3
days_back = 14
rate_limit = 1.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.ClientID != "test_client_id" {
			t.Errorf("expected client_id test_client_id, got %s", config.Credentials.ClientID)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.Client.RequestCeiling != 40 {
			t.Errorf("expected request ceiling 40, got %d", config.Client.RequestCeiling)
		}
		if config.Client.MaxWaitSeconds != 10.5 {
			t.Errorf("expected max wait 10.5s, got %v", config.Client.MaxWaitSeconds)
		}
		if config.Scan.DaysBack != 14 {
			t.Errorf("expected 14 day lookback, got %d", config.Scan.DaysBack)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("duration helpers", func(t *testing.T) {
		client := ClientConfig{WindowSeconds: 30, BaseDelayMS: 250}

		if client.Window() != 30*time.Second {
			t.Errorf("Window() = %v, want 30s", client.Window())
		}
		if client.BaseDelay() != 250*time.Millisecond {
			t.Errorf("BaseDelay() = %v, want 250ms", client.BaseDelay())
		}
	})
}
