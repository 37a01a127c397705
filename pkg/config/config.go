// Package config provides configuration loading and management for gelseq.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"gelseq/internal/models"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Peak detection parameters for the middle scan line
	Peaks struct {
		// Height is the minimum normalized intensity a peak must exceed
		Height float64 `yaml:"height"`

		// Distance is the minimum number of samples between two peaks of one channel
		Distance int `yaml:"distance"`
	} `yaml:"peaks"`

	// Per-pixel intensity classifier thresholds, on the 0-255 scale
	Classifier struct {
		RedThreshold   int `yaml:"redThreshold"`
		GreenThreshold int `yaml:"greenThreshold"`
		BlueThreshold  int `yaml:"blueThreshold"`
	} `yaml:"classifier"`

	Processing struct {
		// NumCores specifies how many images are processed in parallel
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// SaveChromatogram renders the peak chromatogram for every image
		SaveChromatogram bool `yaml:"saveChromatogram"`

		// SaveNucleotideMap writes the per-pixel classification as an image
		SaveNucleotideMap bool `yaml:"saveNucleotideMap"`
	} `yaml:"output"`

	Storage struct {
		// ReportDir is where comparison reports are persisted
		ReportDir string `yaml:"reportDir"`
	} `yaml:"storage"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	peaks := models.DefaultPeakParams()
	cfg.Peaks.Height = peaks.Height
	cfg.Peaks.Distance = peaks.Distance

	th := models.DefaultThresholds()
	cfg.Classifier.RedThreshold = th.Red
	cfg.Classifier.GreenThreshold = th.Green
	cfg.Classifier.BlueThreshold = th.Blue

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.Verbose = false
	cfg.Output.SaveChromatogram = true
	cfg.Output.SaveNucleotideMap = false

	cfg.Storage.ReportDir = "reports"

	return cfg
}

// PeakParams returns the peak detection settings
func (c *Config) PeakParams() models.PeakParams {
	return models.PeakParams{Height: c.Peaks.Height, Distance: c.Peaks.Distance}
}

// Thresholds returns the classifier thresholds
func (c *Config) Thresholds() models.Thresholds {
	return models.Thresholds{
		Red:   c.Classifier.RedThreshold,
		Green: c.Classifier.GreenThreshold,
		Blue:  c.Classifier.BlueThreshold,
	}
}

// Validate checks that every tunable is within range
func (c *Config) Validate() error {
	if c.Peaks.Height < 0 || c.Peaks.Height >= 1 {
		return fmt.Errorf("peaks.height must be in [0, 1), got %g", c.Peaks.Height)
	}
	if c.Peaks.Distance < 1 {
		return fmt.Errorf("peaks.distance must be at least 1, got %d", c.Peaks.Distance)
	}
	for name, v := range map[string]int{
		"classifier.redThreshold":   c.Classifier.RedThreshold,
		"classifier.greenThreshold": c.Classifier.GreenThreshold,
		"classifier.blueThreshold":  c.Classifier.BlueThreshold,
	} {
		if v < 0 || v > 255 {
			return fmt.Errorf("%s must be in [0, 255], got %d", name, v)
		}
	}
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("processing.numCores must be at least 1, got %d", c.Processing.NumCores)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
