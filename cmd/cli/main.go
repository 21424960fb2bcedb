package main

import (
	"context"
	"log"
	"os"

	"github.com/tapmap-app/tapmap/internal/buildinfo"
	"github.com/tapmap-app/tapmap/internal/client/cli"
	"github.com/tapmap-app/tapmap/internal/client/config"
	"github.com/tapmap-app/tapmap/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
