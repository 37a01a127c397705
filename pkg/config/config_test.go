package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Peaks.Height != 0.1 {
		t.Errorf("Expected peak height 0.1, got %g", cfg.Peaks.Height)
	}
	if cfg.Peaks.Distance != 1 {
		t.Errorf("Expected peak distance 1, got %d", cfg.Peaks.Distance)
	}

	th := cfg.Thresholds()
	if th.Red != 30 || th.Green != 30 || th.Blue != 30 {
		t.Errorf("Expected thresholds 30/30/30, got %d/%d/%d", th.Red, th.Green, th.Blue)
	}

	if cfg.Processing.NumCores < 1 {
		t.Errorf("Expected at least one core, got %d", cfg.Processing.NumCores)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig on a missing file should not fail: %v", err)
	}
	if cfg.Peaks.Height != DefaultConfig().Peaks.Height {
		t.Errorf("Missing file should yield defaults")
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gelseq.yaml")
	content := "peaks:\n  height: 0.25\nclassifier:\n  blueThreshold: 80\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Peaks.Height != 0.25 {
		t.Errorf("Expected height 0.25, got %g", cfg.Peaks.Height)
	}
	// Untouched keys keep their defaults
	if cfg.Peaks.Distance != 1 {
		t.Errorf("Expected default distance 1, got %d", cfg.Peaks.Distance)
	}
	if cfg.Classifier.BlueThreshold != 80 || cfg.Classifier.RedThreshold != 30 {
		t.Errorf("Unexpected thresholds: %+v", cfg.Thresholds())
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("peaks: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gelseq.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	for _, key := range []string{"peaks:", "classifier:", "redThreshold: 30", "reportDir: reports"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %q in written config:\n%s", key, data)
		}
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative height", func(c *Config) { c.Peaks.Height = -0.1 }},
		{"height of one", func(c *Config) { c.Peaks.Height = 1 }},
		{"zero distance", func(c *Config) { c.Peaks.Distance = 0 }},
		{"red above range", func(c *Config) { c.Classifier.RedThreshold = 256 }},
		{"green below range", func(c *Config) { c.Classifier.GreenThreshold = -1 }},
		{"zero cores", func(c *Config) { c.Processing.NumCores = 0 }},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
