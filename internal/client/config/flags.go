package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/flagx"
)

// Flags lists the short flags owned by parseFlags.
var Flags = []string{"-a", "-t", "-d", "-n", "-j", "-f", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so sub-command arguments pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.HistoryDSN, "d", cfg.HistoryDSN, "upload history database file")
	fs.IntVar(&cfg.MaxFiles, "n", cfg.MaxFiles, "maximum files per upload session")
	fs.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "parallel uploads")
	fileTimeout := fs.Int("f", int(cfg.FileTimeout.Seconds()), "per-file upload timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.FileTimeout = time.Duration(*fileTimeout) * time.Second
}
