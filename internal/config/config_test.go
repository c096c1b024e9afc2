package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/mcpi/internal/plot"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Run.Points != nil || cfg.Plot.DPI != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[run]
points = 500
seed = 7
data-dir = "/tmp/pi"
parallel = true

[plot]
dpi = 150
inside-color = "#000000"
title = "Pi"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Run.Points == nil || *cfg.Run.Points != 500 {
		t.Fatalf("unexpected points: %v", cfg.Run.Points)
	}
	if cfg.Run.Seed == nil || *cfg.Run.Seed != 7 {
		t.Fatalf("unexpected seed: %v", cfg.Run.Seed)
	}
	if cfg.Run.DataDir == nil || *cfg.Run.DataDir != "/tmp/pi" {
		t.Fatalf("unexpected data dir: %v", cfg.Run.DataDir)
	}
	if cfg.Run.Parallel == nil || !*cfg.Run.Parallel {
		t.Fatalf("unexpected parallel: %v", cfg.Run.Parallel)
	}

	style := cfg.Plot.Style(plot.DefaultStyle())
	if style.DPI != 150 || style.InsideColor != "#000000" || style.Title != "Pi" {
		t.Fatalf("overrides not applied: %+v", style)
	}
	if style.OutsideColor != plot.DefaultStyle().OutsideColor {
		t.Fatalf("unset field changed: %q", style.OutsideColor)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[run]\npoint = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestEnvDataDir(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	if got := EnvDataDir(); got != DefaultDataDir {
		t.Fatalf("expected %q, got %q", DefaultDataDir, got)
	}
	t.Setenv(DataDirEnv, "/srv/qs")
	if got := EnvDataDir(); got != "/srv/qs" {
		t.Fatalf("expected /srv/qs, got %q", got)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "mcpi", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "mcpi", "mcpi.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}
