package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken  string `yaml:"bot_token"`
		ChatID    string `yaml:"chat_id"`
		LogChatID string `yaml:"log_chat_id"`
	} `yaml:"telegram"`
	Source struct {
		LatestFeedURL  string `yaml:"latest_feed_url"`
		StockReportURL string `yaml:"stock_report_url"` // stock name appended as query value
		DetailBaseURL  string `yaml:"detail_base_url"`
		CatalogURL     string `yaml:"catalog_url"`
		SectorURL      string `yaml:"sector_url"`
		FeedPageSize   int    `yaml:"feed_page_size"`
		Timezone       string `yaml:"timezone"`
	} `yaml:"source"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty means run once and exit
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	SendInterval time.Duration `yaml:"send_interval"`
	Proxy        string        `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CHAT_ID_LOG"); v != "" {
		cfg.Telegram.LogChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Source.LatestFeedURL == "" {
		cfg.Source.LatestFeedURL = "https://klse.i3investor.com/jsp/pt.jsp"
	}
	if cfg.Source.StockReportURL == "" {
		cfg.Source.StockReportURL = "https://klse.i3investor.com/ptservlet.jsp?sa=pts&q="
	}
	if cfg.Source.DetailBaseURL == "" {
		cfg.Source.DetailBaseURL = "https://klse.i3investor.com"
	}
	if cfg.Source.CatalogURL == "" {
		cfg.Source.CatalogURL = "https://www.bursamarketplace.com/bin/json/stockheatmap.json"
	}
	if cfg.Source.SectorURL == "" {
		cfg.Source.SectorURL = "https://www.isaham.my/sector/reits"
	}
	if cfg.Source.FeedPageSize == 0 {
		cfg.Source.FeedPageSize = 50
	}
	if cfg.Source.Timezone == "" {
		cfg.Source.Timezone = "Asia/Kuala_Lumpur"
	}
	if cfg.SendInterval == 0 {
		cfg.SendInterval = 3 * time.Second
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Telegram.LogChatID == "" {
		return fmt.Errorf("telegram.log_chat_id is required")
	}
	if c.Source.FeedPageSize < 0 {
		return fmt.Errorf("source.feed_page_size must not be negative")
	}
	return nil
}
