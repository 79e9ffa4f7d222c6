package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophbank/internal/flagx"
)

// jsonConfig is the file DTO. Pointer fields tell an absent key from a zero value.
type jsonConfig struct {
	StorageDriver    *string `json:"storage_driver"`
	DSN              *string `json:"dsn"`
	MaxLoginAttempts *int    `json:"max_login_attempts"`
	LogLevel         *string `json:"log_level"`
	LogFile          *string `json:"log_file"`
	ListPageSize     *int    `json:"list_page_size"`
	SnapshotPath     *string `json:"snapshot_path"`
	RestorePath      *string `json:"restore_path"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJSON overlays cfg with the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.StorageDriver, jc.StorageDriver)
	set(&cfg.DSN, jc.DSN)
	set(&cfg.MaxLoginAttempts, jc.MaxLoginAttempts)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFile, jc.LogFile)
	set(&cfg.ListPageSize, jc.ListPageSize)
	set(&cfg.SnapshotPath, jc.SnapshotPath)
	set(&cfg.RestorePath, jc.RestorePath)
	return nil
}
