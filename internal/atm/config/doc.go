// Package config loads runtime configuration for the GophBank console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   storage driver: sqlite or pgx
//	-d string   data source name (file path for sqlite, URL for pgx)
//	-m int      failed logins allowed before the run is locked
//	-l string   log level: debug, info, warn or error
//	-o string   log file; empty logs to stderr
//	-p int      accounts fetched per page when listing
//	-e string   file written by the export command
//	-r string   snapshot to restore at startup
//
// # JSON schema
//
//	{
//	  "storage_driver": "sqlite",
//	  "dsn": "gophbank.db",
//	  "max_login_attempts": 3,
//	  "log_level": "info",
//	  "log_file": "gophbank.log",
//	  "list_page_size": 50,
//	  "snapshot_path": "gophbank.json",
//	  "restore_path": ""
//	}
//
// Keys missing from the file keep their earlier value.
package config
