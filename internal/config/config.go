package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"MarketScout/internal/model"
	"MarketScout/internal/strategy"
)

// Config holds all application configuration. One structured value, loaded
// once at startup and passed at construction.
type Config struct {
	App struct {
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watchlist []model.Instrument `yaml:"watchlist"`
	Session   struct {
		Timezone string   `yaml:"timezone"`
		Days     []string `yaml:"days"`
		Open     string   `yaml:"open"`
		Close    string   `yaml:"close"`
	} `yaml:"session"`
	Engine struct {
		MinBars             int                 `yaml:"min_bars"`
		EmaFastSpan         int                 `yaml:"ema_fast_span"`
		EmaSlowSpan         int                 `yaml:"ema_slow_span"`
		AvgVolumeBars       int                 `yaml:"avg_volume_bars"`
		AcceptanceThreshold int                 `yaml:"acceptance_threshold"`
		CooldownMinutes     int                 `yaml:"cooldown_minutes"`
		Thresholds          strategy.Thresholds `yaml:"thresholds"`
	} `yaml:"engine"`
	Scan struct {
		IntervalSeconds       int    `yaml:"interval_seconds"`
		IdleRecheckSeconds    int    `yaml:"idle_recheck_seconds"`
		FailureBackoffSeconds int    `yaml:"failure_backoff_seconds"`
		FetchTimeoutSeconds   int    `yaml:"fetch_timeout_seconds"`
		Lookback              string `yaml:"lookback"`
		BarInterval           string `yaml:"bar_interval"`
		DropLastBar           *bool  `yaml:"drop_last_bar"`
		DigestCron            string `yaml:"digest_cron"`
	} `yaml:"scan"`
	Server struct {
		Addr        string `yaml:"addr"`
		RecentLimit int    `yaml:"recent_limit"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("ACCEPTANCE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.AcceptanceThreshold = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []model.Instrument{
			{Symbol: "RELIANCE.NS", Sector: "Energy"},
			{Symbol: "HDFCBANK.NS", Sector: "Banking"},
			{Symbol: "SBIN.NS", Sector: "Banking"},
		}
	}
	if c.Session.Timezone == "" {
		c.Session.Timezone = "Asia/Kolkata"
	}
	if len(c.Session.Days) == 0 {
		c.Session.Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	}
	if c.Session.Open == "" {
		c.Session.Open = "09:15"
	}
	if c.Session.Close == "" {
		c.Session.Close = "15:30"
	}
	if c.Engine.MinBars == 0 {
		c.Engine.MinBars = 15
	}
	if c.Engine.EmaFastSpan == 0 {
		c.Engine.EmaFastSpan = 20
	}
	if c.Engine.EmaSlowSpan == 0 {
		c.Engine.EmaSlowSpan = 50
	}
	if c.Engine.AvgVolumeBars == 0 {
		c.Engine.AvgVolumeBars = 10
	}
	if c.Engine.AcceptanceThreshold == 0 {
		c.Engine.AcceptanceThreshold = 60
	}
	if c.Engine.CooldownMinutes == 0 {
		c.Engine.CooldownMinutes = 45
	}
	if c.Engine.Thresholds == (strategy.Thresholds{}) {
		c.Engine.Thresholds = strategy.DefaultThresholds()
	}
	if c.Scan.IntervalSeconds == 0 {
		c.Scan.IntervalSeconds = 180
	}
	if c.Scan.IdleRecheckSeconds == 0 {
		c.Scan.IdleRecheckSeconds = 60
	}
	if c.Scan.FailureBackoffSeconds == 0 {
		c.Scan.FailureBackoffSeconds = 60
	}
	if c.Scan.FetchTimeoutSeconds == 0 {
		c.Scan.FetchTimeoutSeconds = 10
	}
	if c.Scan.Lookback == "" {
		c.Scan.Lookback = "1d"
	}
	if c.Scan.BarInterval == "" {
		c.Scan.BarInterval = "5m"
	}
	if c.Scan.DropLastBar == nil {
		dropLast := true
		c.Scan.DropLastBar = &dropLast
	}
	if c.Scan.DigestCron == "" {
		c.Scan.DigestCron = "0 0 18 * * 1-5"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Server.RecentLimit == 0 {
		c.Server.RecentLimit = 50
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/marketscout.db"
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	for _, inst := range c.Watchlist {
		if inst.Symbol == "" {
			return fmt.Errorf("watchlist entries require a symbol")
		}
	}
	if c.Engine.MinBars < 2 {
		return fmt.Errorf("engine.min_bars must be at least 2")
	}
	if c.Engine.EmaFastSpan >= c.Engine.EmaSlowSpan {
		return fmt.Errorf("engine.ema_fast_span must be shorter than ema_slow_span")
	}
	if c.Engine.AcceptanceThreshold < 0 || c.Engine.AcceptanceThreshold > 100 {
		return fmt.Errorf("engine.acceptance_threshold must be within [0,100]")
	}
	if c.Engine.CooldownMinutes <= 0 {
		return fmt.Errorf("engine.cooldown_minutes must be positive")
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	return nil
}
