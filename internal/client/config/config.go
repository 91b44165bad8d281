package config

import "time"

// Config holds runtime settings for the csomedia CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the media gRPC endpoint.
//   - AccessToken: bearer token sent with every protected call; prompted for when empty.
//   - HistoryDSN: SQLite file recording completed uploads.
//   - MaxFiles: per-session cap on files accepted by "upload".
//   - Concurrency: parallel uploads within one batch.
//   - FileTimeout: per-file upload deadline; zero disables it.
//   - RequestTimeout: deadline of single RPCs other than uploads.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	HistoryDSN         string
	MaxFiles           int
	Concurrency        int
	FileTimeout        time.Duration
	RequestTimeout     time.Duration
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.HistoryDSN = "uploads.db"
	c.MaxFiles = 10
	c.Concurrency = 1
	c.FileTimeout = 2 * time.Minute
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
