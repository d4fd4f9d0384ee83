package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("default model=%q", cfg.Model)
	}
	if cfg.Source != path {
		t.Fatalf("source=%q want %q", cfg.Source, path)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "planner_url = \"https://api.example.com\"\nevent_id = \"ev-1\"\nmodel = \"gpt-4o\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("FIESTA_EVENT_ID", "ev-2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PlannerURL != "https://api.example.com" {
		t.Fatalf("planner_url=%q", cfg.PlannerURL)
	}
	if cfg.EventID != "ev-2" {
		t.Fatalf("env override lost: event_id=%q", cfg.EventID)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("model=%q", cfg.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	in := Config{PlannerURL: "https://p", PlannerToken: "tok", EventID: "ev", Model: "m"}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.PlannerURL != in.PlannerURL || out.PlannerToken != in.PlannerToken || out.EventID != in.EventID || out.Model != in.Model {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestApplyKVOverrides(t *testing.T) {
	cfg := Default()
	cfg = ApplyKVOverrides(cfg, []string{"planner_url=https://x", "model = gpt-4o ", "bogus", "unknown=1"})
	if cfg.PlannerURL != "https://x" {
		t.Fatalf("planner_url=%q", cfg.PlannerURL)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("model=%q", cfg.Model)
	}
}
