package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeline.PixelsPerDay != 60 {
		t.Fatalf("expected default zoom 60; got %v", cfg.Timeline.PixelsPerDay)
	}
	st, err := os.Stat(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config.yaml not created: %v", err)
	}
	if got := st.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected 0600 perms; got %v", got)
	}
}

func TestLoad_NormalizesGarbage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	raw := "theme: neon\ntimeline:\n  lane_height: -5\n  pixels_per_day: 12\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "auto" {
		t.Fatalf("invalid theme must fall back to auto; got %q", cfg.Theme)
	}
	if cfg.Timeline.LaneHeight != 44 {
		t.Fatalf("negative lane height must reset; got %v", cfg.Timeline.LaneHeight)
	}
	if cfg.Timeline.PixelsPerDay != 12 {
		t.Fatalf("valid values survive; got %v", cfg.Timeline.PixelsPerDay)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	raw := "them: dark\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected typo'd key to fail")
	}
}
