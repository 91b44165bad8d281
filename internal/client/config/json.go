package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/csomedia/internal/flagx"
	"github.com/dmitrijs2005/csomedia/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AccessToken        string         `json:"access_token"`
	HistoryDSN         string         `json:"history_dsn"`
	MaxFiles           int            `json:"max_files"`
	Concurrency        int            `json:"concurrency"`
	FileTimeout        timex.Duration `json:"file_timeout"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Keys absent from the file keep their current values. Read or
// unmarshal errors panic.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		ServerEndpointAddr: config.ServerEndpointAddr,
		AccessToken:        config.AccessToken,
		HistoryDSN:         config.HistoryDSN,
		MaxFiles:           config.MaxFiles,
		Concurrency:        config.Concurrency,
		FileTimeout:        timex.Duration{Duration: config.FileTimeout},
		RequestTimeout:     timex.Duration{Duration: config.RequestTimeout},
		LogLevel:           config.LogLevel,
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.AccessToken = c.AccessToken
	config.HistoryDSN = c.HistoryDSN
	config.MaxFiles = c.MaxFiles
	config.Concurrency = c.Concurrency
	config.FileTimeout = c.FileTimeout.Duration
	config.RequestTimeout = c.RequestTimeout.Duration
	config.LogLevel = c.LogLevel
}
