package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if !cfg.DBEnabled {
		t.Error("DBEnabled should default to true")
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database defaults: %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.Database != "policydb" {
		t.Errorf("DB name = %q, want policydb", cfg.Database.Database)
	}
	if cfg.Import.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want uploads", cfg.Import.UploadDir)
	}
	if cfg.Import.EventsStream != "" || cfg.Import.WebhookURL != "" {
		t.Error("import events stream and webhook should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("IMPORT_EVENTS_STREAM", "import-events")

	cfg := Load()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if cfg.DBEnabled {
		t.Error("DBEnabled should be false")
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("DB port = %d, want 6543", cfg.Database.Port)
	}
	if cfg.Import.EventsStream != "import-events" {
		t.Errorf("EventsStream = %q, want import-events", cfg.Import.EventsStream)
	}
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "policydb", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=policydb sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestParseIntFallback(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg := Load()
	if cfg.Database.Port != 5432 {
		t.Errorf("invalid DB_PORT should fall back to 5432, got %d", cfg.Database.Port)
	}
}
