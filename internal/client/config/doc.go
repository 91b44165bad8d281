// Package config loads runtime configuration for the csomedia CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the media gRPC endpoint
//	-t string   access token
//	-d string   upload history database file
//	-n int      maximum files per upload session
//	-j int      parallel uploads per batch
//	-f int      per-file upload timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "90s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "history_dsn": "uploads.db",
//	  "max_files": 10,
//	  "concurrency": 2,
//	  "file_timeout": "2m",
//	  "request_timeout": "15s",
//	  "log_level": "warn"
//	}
//
// Every flag the package owns is listed in Flags so the CLI can strip them
// before parsing its sub-command.
package config
