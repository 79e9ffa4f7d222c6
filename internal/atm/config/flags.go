package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophbank/internal/flagx"
)

var knownFlags = []string{"-s", "-d", "-m", "-l", "-o", "-p", "-e", "-r"}

// parseFlags overlays cfg with the flags it knows about. Other arguments,
// such as -c, are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gophbank", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver (sqlite|pgx)")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "data source name")
	fs.IntVar(&cfg.MaxLoginAttempts, "m", cfg.MaxLoginAttempts, "failed logins before lockout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "o", cfg.LogFile, "log file, empty for stderr")
	fs.IntVar(&cfg.ListPageSize, "p", cfg.ListPageSize, "accounts per page when listing")
	fs.StringVar(&cfg.SnapshotPath, "e", cfg.SnapshotPath, "snapshot export path")
	fs.StringVar(&cfg.RestorePath, "r", cfg.RestorePath, "snapshot to restore at startup")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
