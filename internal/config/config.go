package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PathsConfig points at the OpenCode storage tree and the export target.
type PathsConfig struct {
	StorageDir string `yaml:"storage_dir"`
	ExportDir  string `yaml:"export_dir"`
}

// PricingConfig locates the model pricing table.
type PricingConfig struct {
	ModelsFile string `yaml:"models_file"`
}

// UIConfig controls the live dashboard.
type UIConfig struct {
	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds"`
}

// AnalyticsConfig controls report defaults.
type AnalyticsConfig struct {
	// WeekStartDay uses 0=Monday .. 6=Sunday.
	WeekStartDay        int `yaml:"week_start_day"`
	RecentSessionsLimit int `yaml:"recent_sessions_limit"`
}

// ExportConfig controls file export.
type ExportConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// Config is the full ocmon configuration. It is constructed once at
// startup and passed to the components that need it; reload means
// constructing a new value.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Pricing   PricingConfig   `yaml:"pricing"`
	UI        UIConfig        `yaml:"ui"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Export    ExportConfig    `yaml:"export"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			StorageDir: defaultStorageDir(),
			ExportDir:  "./exports",
		},
		Pricing: PricingConfig{
			ModelsFile: filepath.Join(defaultConfigDir(), "models.json"),
		},
		UI: UIConfig{
			RefreshIntervalSeconds: 5,
		},
		Analytics: AnalyticsConfig{
			WeekStartDay:        0,
			RecentSessionsLimit: 50,
		},
		Export: ExportConfig{
			DefaultFormat: "csv",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(defaultConfigDir(), "config.yaml")
}

func defaultConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "ocmon")
}

// defaultStorageDir resolves the OpenCode storage root, honoring
// XDG_DATA_HOME.
func defaultStorageDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "opencode", "storage")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "opencode", "storage")
}

// Load reads a YAML config file, merging it over defaults. A missing file
// yields the defaults; a malformed file is a hard configuration error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// MessagesDir returns the directory holding ses_* session directories.
func (c *Config) MessagesDir() string {
	return filepath.Join(c.Paths.StorageDir, "message")
}

// TitleDir returns the per-project session-title store.
func (c *Config) TitleDir() string {
	return filepath.Join(c.Paths.StorageDir, "session")
}

// RefreshInterval returns the live dashboard refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	secs := c.UI.RefreshIntervalSeconds
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
