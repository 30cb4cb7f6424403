package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/server"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage/memory"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage/sqlite"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := server.Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("unable to parse environment variables: %s", err)
	}

	ctx := logger.AddToContext(context.Background(), slog.Default())

	var svc timeentry.Service
	var jobs timeentry.JobDirectory

	if cfg.DbName != "" {
		store, err := sqlite.New(cfg.DbName)
		if err != nil {
			log.Fatalf("could not open database: %s", err)
		}
		defer store.Close()

		if err := store.Up(ctx); err != nil {
			log.Fatalf("could not prepare database: %s", err)
		}
		if cfg.Seed {
			if err := store.Seed(); err != nil {
				log.Fatalf("could not seed database: %s", err)
			}
		}
		svc, jobs = store, store
	} else {
		slog.Info("no DB_NAME set, using the in-memory store")
		store := memory.New()
		store.SeedJobs(
			timeentry.Job{Id: "job-fence-repair", Title: "Fence repair", ClientName: "H. Whitfield"},
			timeentry.Job{Id: "job-deck-build", Title: "Deck build", ClientName: "Sunnybank Cafe"},
			timeentry.Job{Id: "job-gutter-clean", Title: "Gutter clean", ClientName: "R. Okafor"},
			timeentry.Job{Id: "job-bathroom-reno", Title: "Bathroom reno", ClientName: "M. Tran"},
		)
		svc, jobs = store, store
	}

	srv := server.New(svc, jobs, cfg.ApiToken)

	slog.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
}
