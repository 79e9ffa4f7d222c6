package config

import (
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/logging"
)

// Config holds runtime settings for the GophBank console.
type Config struct {
	StorageDriver    string
	DSN              string
	MaxLoginAttempts int
	LogLevel         string
	LogFile          string
	ListPageSize     int
	SnapshotPath     string
	RestorePath      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = "sqlite"
	c.DSN = "gophbank.db"
	c.MaxLoginAttempts = 3
	c.LogLevel = "info"
	c.LogFile = "gophbank.log"
	c.ListPageSize = 50
	c.SnapshotPath = "gophbank.json"
	c.RestorePath = ""
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.DSN == "" {
		return fmt.Errorf("empty data source name")
	}
	if c.MaxLoginAttempts < 1 {
		return fmt.Errorf("max login attempts must be positive, got %d", c.MaxLoginAttempts)
	}
	if c.ListPageSize < 1 {
		return fmt.Errorf("list page size must be positive, got %d", c.ListPageSize)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named in args
// (if any), then flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
