package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/realpulse/realpulse/internal/config"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.PlatformName != "realpulse" || cfg.DBPath != "./realpulse.db" || cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if cfg.DBPath != "./realpulse.db" {
		t.Errorf("expected default db path, got %s", cfg.DBPath)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: /data/pulse.db
log_level: debug
kpi_targets:
  Average Days on Market: 35
  Occupancy Rate: 0.97
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DBPath != "/data/pulse.db" {
		t.Errorf("db_path = %s", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %s", cfg.LogLevel)
	}
	// Unset fields keep defaults.
	if cfg.PlatformName != "realpulse" {
		t.Errorf("platform_name = %s", cfg.PlatformName)
	}
	if cfg.KPITargets["Average Days on Market"] != 35 {
		t.Errorf("kpi_targets = %+v", cfg.KPITargets)
	}
	if cfg.KPITargets["Occupancy Rate"] != 0.97 {
		t.Errorf("kpi_targets = %+v", cfg.KPITargets)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: [oops"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}
