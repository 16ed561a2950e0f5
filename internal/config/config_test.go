package config

import "testing"

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_SETTINGS_SIZE", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	// the listener builds its address as ":"+Port, so Port must never be empty
	if cfg.HTTP.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.Cache.SettingsSize != 512 {
		t.Errorf("default cache size = %d, want 512", cfg.Cache.SettingsSize)
	}
}
