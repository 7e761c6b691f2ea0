package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"MarketScout/internal/collector"
	"MarketScout/internal/config"
	"MarketScout/internal/cooldown"
	"MarketScout/internal/engine"
	"MarketScout/internal/market"
	"MarketScout/internal/notifier"
	"MarketScout/internal/repository"
	"MarketScout/internal/scheduler"
	"MarketScout/internal/server"
	"MarketScout/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := util.NewLogger(cfg.App.LogLevel)
	log.Info().Str("config", cfgPath).Int("watchlist", len(cfg.Watchlist)).Msg("starting marketscout")

	repo, err := repository.NewSQLiteRepository(cfg.Database.SQLitePath, cfg.Server.RecentLimit, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.SQLitePath).Msg("open signal store")
	}
	defer repo.Close()

	session, err := market.NewSession(cfg.Session.Timezone, cfg.Session.Days, cfg.Session.Open, cfg.Session.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("build trading session")
	}
	loc, err := time.LoadLocation(cfg.Session.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Session.Timezone).Msg("load timezone")
	}

	fetcher := collector.NewGuardedFetcher(
		collector.NewYahooFetcher(cfg.Proxy),
		time.Duration(cfg.Scan.FetchTimeoutSeconds)*time.Second,
		2, 4,
	)

	var notify notifier.Notifier
	var telegram *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notify = telegram
	} else {
		log.Warn().Msg("telegram credentials missing, alerts go to the console")
		notify = notifier.NewConsoleNotifier(log)
	}

	eng := engine.New(engine.Options{
		MinBars:             cfg.Engine.MinBars,
		FastSpan:            cfg.Engine.EmaFastSpan,
		SlowSpan:            cfg.Engine.EmaSlowSpan,
		AvgVolumeBars:       cfg.Engine.AvgVolumeBars,
		AcceptanceThreshold: cfg.Engine.AcceptanceThreshold,
		Thresholds:          cfg.Engine.Thresholds,
		Lookback:            cfg.Scan.Lookback,
		BarInterval:         cfg.Scan.BarInterval,
		DropLastBar:         *cfg.Scan.DropLastBar,
	}, engine.Deps{
		Instruments: cfg.Watchlist,
		Session:     session,
		Fetcher:     fetcher,
		Cooldown:    cooldown.NewTracker(time.Duration(cfg.Engine.CooldownMinutes)*time.Minute, nil),
		Repo:        repo,
		Notifier:    notify,
		Log:         log,
	})

	loop := scheduler.NewLoop(eng, repo, notify, scheduler.Intervals{
		Active:  time.Duration(cfg.Scan.IntervalSeconds) * time.Second,
		Idle:    time.Duration(cfg.Scan.IdleRecheckSeconds) * time.Second,
		Backoff: time.Duration(cfg.Scan.FailureBackoffSeconds) * time.Second,
	}, loc, log)
	if err := loop.RegisterDigest(cfg.Scan.DigestCron); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scan.DigestCron).Msg("register digest job")
	}
	loop.StartCron()
	defer loop.StopCron()

	srv := server.New(cfg.Server.Addr, repo, eng, cfg.Server.RecentLimit, log)
	srv.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if telegram != nil {
		go telegram.StartPolling(ctx, func(command string) string {
			switch command {
			case "/status":
				if eng.MarketOpen() {
					return "Market is open, scanning."
				}
				return "Market is closed, idle."
			case "/recent":
				return notifier.FormatRecent(repo.Recent(10))
			default:
				return "Commands: /status, /recent"
			}
		}, log)
	}

	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("marketscout stopped")
}
