package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/dev-avwi/TradieTrack-sub007/internal/clients/timeapi"
	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/stats"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timer"
	"github.com/dev-avwi/TradieTrack-sub007/internal/tui"
)

func main() {
	reportFlag := flag.Bool("report", false, "print a report and exit")
	rng := flag.String("range", "today", "report range: today|week|month")
	flag.Parse()

	dotenvErr := godotenv.Load(".env")

	cfg := tui.Config{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "parse environment:", err)
		os.Exit(1)
	}

	// Stdout belongs to the UI, so logs go to a file.
	fileLog, closeLog, err := logger.NewFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log file:", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(fileLog)

	if dotenvErr != nil {
		fileLog.Warn("could not load .env file", "error", dotenvErr)
	}

	client, err := timeapi.New(cfg.ApiBaseUrl, cfg.ApiToken)
	if err != nil {
		fmt.Fprintln(os.Stderr, "api base url:", err)
		os.Exit(1)
	}

	machine := timer.New(client, cfg.UserId)
	reporter := stats.NewReporter(client, cfg.UserId)

	if *reportFlag {
		ctx := logger.AddToContext(context.Background(), fileLog)
		if err := machine.Reconcile(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "reconcile:", err)
		}
		summary, err := reporter.SummaryWithActive(ctx, machine.Snapshot().ActiveEntry)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fetch report:", err)
			os.Exit(1)
		}
		if err := tui.PrintReport(os.Stdout, *rng, summary, time.Now()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(tui.New(machine, reporter, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
