package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "TALLY_CONFIG"

// Storage formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Save policies.
const (
	SaveAuto   = "auto"
	SaveManual = "manual"
)

// Config holds the complete application configuration
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Storage   StorageConfig   `toml:"storage" yaml:"storage"`
	Tasks     TasksConfig     `toml:"tasks" yaml:"tasks"`
	Inventory InventoryConfig `toml:"inventory" yaml:"inventory"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir  string `toml:"data_dir" yaml:"data_dir"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Theme    string `toml:"theme" yaml:"theme"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Format string `toml:"format" yaml:"format"`
	// Database is the SQLite file shared by both entity kinds.
	Database string `toml:"database" yaml:"database"`
}

// TasksConfig holds task manager settings
type TasksConfig struct {
	File           string `toml:"file" yaml:"file"`
	SavePolicy     string `toml:"save_policy" yaml:"save_policy"`
	DefaultDueDays int    `toml:"default_due_days" yaml:"default_due_days"`
}

// InventoryConfig holds inventory manager settings
type InventoryConfig struct {
	File              string `toml:"file" yaml:"file"`
	SavePolicy        string `toml:"save_policy" yaml:"save_policy"`
	LowStockThreshold int    `toml:"low_stock_threshold" yaml:"low_stock_threshold"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, picked by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.General.DataDir = os.ExpandEnv(cfg.General.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover loads the explicit path if given, else $TALLY_CONFIG, else the
// first default location that exists. With nothing found it returns the
// defaults and an empty path.
func Discover(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		for _, p := range defaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func defaultPaths() []string {
	paths := []string{"./tally.toml", "./tally.yaml", "./tally.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tally", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.DataDir == "" {
		c.General.DataDir = "."
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.Theme == "" {
		c.General.Theme = "classic"
	}

	c.Storage.Format = strings.ToLower(c.Storage.Format)
	if c.Storage.Format == "" {
		c.Storage.Format = FormatCSV
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "tally.db"
	}

	if c.Tasks.SavePolicy == "" {
		c.Tasks.SavePolicy = SaveAuto
	}
	if c.Tasks.DefaultDueDays == 0 {
		c.Tasks.DefaultDueDays = 7
	}

	if c.Inventory.SavePolicy == "" {
		c.Inventory.SavePolicy = SaveManual
	}
	if c.Inventory.LowStockThreshold == 0 {
		c.Inventory.LowStockThreshold = 5
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.Format {
	case FormatCSV, FormatJSON, FormatYAML, FormatSQLite:
	default:
		return fmt.Errorf("storage.format: unknown format %q", c.Storage.Format)
	}
	for name, p := range map[string]string{"tasks": c.Tasks.SavePolicy, "inventory": c.Inventory.SavePolicy} {
		if p != SaveAuto && p != SaveManual {
			return fmt.Errorf("%s.save_policy: want %q or %q, got %q", name, SaveAuto, SaveManual, p)
		}
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("inventory.low_stock_threshold: cannot be negative")
	}
	return nil
}

// TasksPath is where tasks are persisted.
func (c *Config) TasksPath() string {
	return c.dataPath(c.Tasks.File, "tasks")
}

// InventoryPath is where products are persisted.
func (c *Config) InventoryPath() string {
	return c.dataPath(c.Inventory.File, "inventory")
}

func (c *Config) dataPath(file, base string) string {
	if file == "" {
		switch c.Storage.Format {
		case FormatJSON:
			file = base + ".json"
		case FormatYAML:
			file = base + ".yaml"
		case FormatSQLite:
			file = c.Storage.Database
		default:
			file = base + ".txt"
		}
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.General.DataDir, file)
}
