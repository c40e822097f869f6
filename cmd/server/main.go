package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ChartVault/internal/api"
	"ChartVault/internal/cache"
	"ChartVault/internal/config"
	"ChartVault/internal/fetcher"
	"ChartVault/internal/mirror"
	"ChartVault/internal/recorder"
	"ChartVault/internal/scheduler"
	"ChartVault/internal/store"
	"ChartVault/internal/workspace"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ChartVault starting...")

	_ = godotenv.Load()

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

	// Cache store and git mirror share the cache directory.
	st := store.New(cfg.Cache.Dir)
	gitMirror := mirror.NewGitMirror(cfg.Cache.Dir)
	gitMirror.Init()

	// Fetch client
	yahoo := fetcher.NewYahooFetcher(cfg.Yahoo.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s", yahoo.Name())

	// Lookup audit recorder
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

	chartCache := cache.New(st, yahoo, gitMirror, rec)

	// Background refresh of cached symbols
	refresher := scheduler.NewRefresher(chartCache, st)
	if err := refresher.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	refresher.Start()
	defer refresher.Stop()

	// HTTP server
	srv := api.NewServer(chartCache, workspace.New(cfg.Cache.Dir), cfg.Server.Port, cfg.Server.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] ChartVault is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] ChartVault stopped")
}
