package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/config"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/logger"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/marketdata"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/recorder"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/scheduler"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/server"
)

func main() {
	log := logger.New()
	defer log.Sync()
	log.Infow("portfoliod starting")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalw("load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalw("config validation", "error", err)
	}
	interval, err := model.ParseInterval(cfg.Portfolio.DefaultInterval)
	if err != nil {
		log.Fatalw("config validation", "error", err)
	}

	// Init provider
	var provider marketdata.Provider = marketdata.NewBinanceProvider(
		cfg.Binance.BaseURL, cfg.Binance.APIKey, cfg.Proxy)
	log.Infow("market data source", "provider", provider.Name())

	// Init store
	orch := portfolio.NewOrchestrator(provider, cfg.Portfolio.MaxInFlight, log)
	policy := portfolio.NewStalenessPolicy(time.Duration(cfg.Portfolio.StalenessMaxAge))
	store := portfolio.NewStore(orch, policy, cfg.Portfolio.KlineLimit, log)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed portfolio
	for _, seed := range cfg.Portfolio.Symbols {
		if err := store.AddSymbol(ctx, seed.Symbol, seed.Units, interval); err != nil {
			log.Warnw("seed symbol", "symbol", seed.Symbol, "error", err)
		}
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnw("init sqlite recorder failed, using noop", "error", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, store, rec, interval, log)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalw("register cron task", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: refresh immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Infow("RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	// HTTP surface for the dashboard
	_, engine := server.New(store, log)
	httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	go func() {
		log.Infow("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server", "error", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infow("shutdown signal received, stopping")
	cancel()
	if err := httpServer.Shutdown(context.Background()); err != nil {
		log.Warnw("http shutdown", "error", err)
	}
	log.Infow("portfoliod stopped")
}
