package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/csomedia/internal/client/cli"
	"github.com/dmitrijs2005/csomedia/internal/client/config"
	"github.com/dmitrijs2005/csomedia/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	global := append(append([]string{}, config.Flags...), flagx.ConfigFileFlags...)
	code := app.Run(ctx, flagx.ExcludeArgs(os.Args[1:], global))

	stop()
	os.Exit(code)
}
