package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BursaDaily/internal/config"
	"BursaDaily/internal/discovery"
	"BursaDaily/internal/enrich"
	"BursaDaily/internal/notify"
	"BursaDaily/internal/pipeline"
	"BursaDaily/internal/recorder"
	"BursaDaily/internal/render"
	"BursaDaily/internal/report"
	"BursaDaily/internal/scheduler"
	"BursaDaily/internal/scrape"
	"BursaDaily/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BursaDaily starting...")

	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Source.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] load timezone %q: %v", cfg.Source.Timezone, err)
	}

	client := scrape.NewClient(cfg.Proxy)
	tg := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	p := &pipeline.Pipeline{
		Universe: &universe.Resolver{
			Client:     client,
			CatalogURL: cfg.Source.CatalogURL,
			SectorURL:  cfg.Source.SectorURL,
		},
		Discovery: &discovery.Engine{
			Client:  client,
			FeedURL: cfg.Source.LatestFeedURL,
		},
		Reports: &report.Fetcher{
			Client:         client,
			StockReportURL: cfg.Source.StockReportURL,
		},
		Enricher: &enrich.Enricher{
			Client:  client,
			BaseURL: cfg.Source.DetailBaseURL,
		},
		Formatter: notify.NewFormatter(cfg.Source.DetailBaseURL),
		Deliverer: notify.NewDeliverer(
			tg, render.PDFRenderer{}, client,
			cfg.Telegram.ChatID, cfg.Telegram.LogChatID, cfg.SendInterval,
		),
		Recorder:     rec,
		Location:     loc,
		FeedPageSize: cfg.Source.FeedPageSize,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Schedule.Cron == "" {
		// One-shot mode: run once and exit.
		if err := p.Run(ctx); err != nil {
			log.Fatalf("[FATAL] run: %v", err)
		}
		log.Println("[INFO] run finished")
		return
	}

	sched := scheduler.NewScheduler(ctx, p.Run)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] BursaDaily is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] BursaDaily stopped")
}
