package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/photowall/internal/buildinfo"
	"github.com/dmitrijs2005/photowall/internal/server"
	"github.com/dmitrijs2005/photowall/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := server.Logger(cfg)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
