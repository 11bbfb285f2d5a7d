package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/cache"
	"KyoteiSentinel/internal/collector"
	"KyoteiSentinel/internal/config"
	"KyoteiSentinel/internal/logger"
	"KyoteiSentinel/internal/metrics"
	"KyoteiSentinel/internal/notifier"
	"KyoteiSentinel/internal/scheduler"
	"KyoteiSentinel/internal/server"
	"KyoteiSentinel/internal/settle"
	"KyoteiSentinel/internal/store"
	"KyoteiSentinel/internal/strategy"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	zlog, err := logger.New("kyotei-sentinel", cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()
	if cfg.FileMissing {
		zlog.Warn("config file not found, running on defaults", zap.String("path", cfgPath))
	}
	zlog.Info("KyoteiSentinel starting",
		zap.String("profile", cfg.Strategy.Profile),
		zap.Int64("initial_bankroll", cfg.Strategy.InitialBankroll))

	// Response cache: redis when configured and reachable, memory otherwise
	var responseCache cache.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(cfg.Redis.Addr, zlog)
		if err != nil {
			zlog.Warn("redis unreachable, using memory cache", zap.Error(err))
			responseCache = cache.NewMemory()
		} else {
			responseCache = rc
		}
	} else {
		responseCache = cache.NewMemory()
	}

	mr := metrics.New()

	// Fetcher and collector
	var fetcher collector.Fetcher
	if cfg.Fetcher.Kind == "mock" {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewOpenAPIFetcher(cfg.Proxy, responseCache, mr, zlog)
	}
	zlog.Info("data source ready", zap.String("fetcher", fetcher.Name()))
	col := collector.NewCollector(fetcher, zlog)

	// Investment ledger: SQLite, noop fallback when the disk fails
	var rec store.Recorder
	if sqlStore, err := store.NewSQLite(cfg.Database.SQLitePath, zlog); err != nil {
		zlog.Warn("sqlite store unavailable", zap.Error(err))
		rec = store.NewNoop(zlog)
	} else {
		rec = sqlStore
	}
	defer rec.Close()

	// Bankroll manager, hydrated from the ledger
	manager := bankroll.NewManager(cfg.Strategy.InitialBankroll, zlog)
	if err := manager.Hydrate(rec, time.Now().Format("2006-01-02")); err != nil {
		zlog.Warn("hydrate from ledger failed, starting fresh", zap.Error(err))
	}

	// Strategy engine, settler, notifier
	engine := strategy.New(cfg.Strategy.Profile)
	settler := settle.NewSettler(col, manager, rec, mr, zlog)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, zlog)
	if !tn.Enabled() {
		zlog.Warn("telegram not configured, notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler
	sched := scheduler.NewScheduler(ctx, col, engine, manager, settler, rec, tn, mr, zlog)
	if err := sched.RegisterAll(cfg.Schedule.MorningCron, cfg.Schedule.SettleCron, cfg.Schedule.ReportCron); err != nil {
		zlog.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Metrics endpoint
	metricsSrv := metrics.Serve(cfg.HTTP.MetricsPort)
	zlog.Info("metrics server listening", zap.Int("port", cfg.HTTP.MetricsPort))

	// HTTP API
	api := server.New(cfg.HTTP.Port, manager, rec, zlog)
	go func() {
		if err := api.Start(); err != nil {
			zlog.Error("http server", zap.Error(err))
		}
	}()

	// Telegram command loop
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		zlog.Info("telegram polling started")
	}

	// Optional: run the morning pass immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		zlog.Info("RUN_ON_START enabled, executing morning task now")
		go func() {
			if err := sched.RunOnce("morning"); err != nil {
				zlog.Error("run on start", zap.Error(err))
			}
		}()
	}

	zlog.Info("KyoteiSentinel is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zlog.Info("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics shutdown", zap.Error(err))
	}
	zlog.Info("KyoteiSentinel stopped")
}
