package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
debug: true
server:
  host: "0.0.0.0"
  port: 8060
database:
  host: "localhost"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if !cfg.Debug {
		t.Error("Load() cfg.Debug = false, want true")
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Load() cfg.Server.Host = %v, want 0.0.0.0", cfg.Server.Host)
	}

	if cfg.Server.Port != 8060 {
		t.Errorf("Load() cfg.Server.Port = %v, want 8060", cfg.Server.Port)
	}

	if cfg.Database.DBName != "testdb" {
		t.Errorf("Load() cfg.Database.DBName = %v, want testdb", cfg.Database.DBName)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
database:
  host: "localhost"
  user: "user"
  password: "pass"
  dbname: "db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Load() cfg.Server.Port = %v, want %v", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Database.Port != defaultDatabasePort {
		t.Errorf("Load() cfg.Database.Port = %v, want %v", cfg.Database.Port, defaultDatabasePort)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Load() cfg.Database.SSLMode = %v, want disable", cfg.Database.SSLMode)
	}

	// Rate-limit groups default to the documented windows.
	if cfg.RateLimit.Jobs.Window != 15*time.Minute || cfg.RateLimit.Jobs.Max != 100 {
		t.Errorf("Load() jobs rate limit = %v/%v, want 15m/100",
			cfg.RateLimit.Jobs.Window, cfg.RateLimit.Jobs.Max)
	}
	if cfg.RateLimit.Admin.Window != 15*time.Minute || cfg.RateLimit.Admin.Max != 200 {
		t.Errorf("Load() admin rate limit = %v/%v, want 15m/200",
			cfg.RateLimit.Admin.Window, cfg.RateLimit.Admin.Max)
	}
	if cfg.RateLimit.Apply.Window != time.Hour || cfg.RateLimit.Apply.Max != 5 {
		t.Errorf("Load() apply rate limit = %v/%v, want 1h/5",
			cfg.RateLimit.Apply.Window, cfg.RateLimit.Apply.Max)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8060
database:
  host: "localhost"
  user: "user"
  password: "pass"
  dbname: "db"
`)

	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "override")
	t.Setenv("ADMIN_TOKEN", "secret")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Load() cfg.Server.Port = %v, want 9000", cfg.Server.Port)
	}
	if cfg.Database.DBName != "override" {
		t.Errorf("Load() cfg.Database.DBName = %v, want override", cfg.Database.DBName)
	}
	if cfg.Auth.AdminToken != "secret" {
		t.Errorf("Load() cfg.Auth.AdminToken = %v, want secret", cfg.Auth.AdminToken)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
database:
  host: "localhost"
`)

	if _, err := Load(configPath); err == nil {
		t.Error("Load() error = nil, want validation error for missing database.user")
	}
}
