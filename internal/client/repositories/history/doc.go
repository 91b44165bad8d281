// Package history keeps a local SQLite record of files uploaded from this
// machine, so the CLI can list and re-sign them without asking the server.
package history
