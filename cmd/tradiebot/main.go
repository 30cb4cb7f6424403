package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dev-avwi/TradieTrack-sub007/internal/bot"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := bot.Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("unable to parse environment variables: %s", err)
	}

	bot := bot.New(&cfg)
	bot.Serve(ctx)
}
