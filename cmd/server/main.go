// Command server runs the csomedia media service: the gRPC upload API and
// the Prometheus metrics endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/csomedia/internal/server"
	"github.com/dmitrijs2005/csomedia/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
