package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/opsdeck/opsdeck/internal/server"
	"github.com/opsdeck/opsdeck/internal/server/config"
)

func main() {

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
