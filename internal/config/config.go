package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Cache struct {
		Dir      string `yaml:"dir"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"cache"`
	Reference struct {
		Disabled bool `yaml:"disabled"`
	} `yaml:"reference"`
	Source  string `yaml:"source"`
	Fetcher struct {
		TiingoBaseURL  string  `yaml:"tiingo_base_url"`
		TiingoAPIKey   string  `yaml:"tiingo_api_key"`
		Proxy          string  `yaml:"proxy"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
	} `yaml:"fetcher"`
	Refresh struct {
		Cron      string   `yaml:"cron"`
		Tickers   []string `yaml:"tickers"`
		StateFile string   `yaml:"state_file"`
	} `yaml:"refresh"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
		MaxAge int    `yaml:"max_age"`
	} `yaml:"logging"`
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
	if v := os.Getenv("STOCKDATA_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("STOCKDATA_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("TIINGO_BASE_URL"); v != "" {
		cfg.Fetcher.TiingoBaseURL = v
	}
	if v := os.Getenv("TIINGO_API_KEY"); v != "" {
		cfg.Fetcher.TiingoAPIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Fetcher.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Refresh.Cron = v
	}

	// Defaults
	if cfg.Source == "" {
		cfg.Source = "yahoo"
	}
	if cfg.Fetcher.TiingoBaseURL == "" {
		cfg.Fetcher.TiingoBaseURL = "https://api.tiingo.com"
	}
	if cfg.Fetcher.RateLimitBurst <= 0 {
		cfg.Fetcher.RateLimitBurst = 1
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 30 22 * * 1-5"
	}
	if len(cfg.Refresh.Tickers) == 0 {
		cfg.Refresh.Tickers = []string{"SPY"}
	}
	if cfg.Refresh.StateFile == "" {
		cfg.Refresh.StateFile = "data/refresh_state.json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	return cfg, nil
}

// Validate checks the fields the refresh daemon cannot run without.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if c.Refresh.Cron == "" {
		return fmt.Errorf("refresh.cron is required")
	}
	if len(c.Refresh.Tickers) == 0 {
		return fmt.Errorf("refresh.tickers must name at least one ticker")
	}
	for _, tk := range c.Refresh.Tickers {
		if tk == "" {
			return fmt.Errorf("refresh.tickers must not contain empty entries")
		}
	}
	if c.Fetcher.RateLimitRPS < 0 {
		return fmt.Errorf("fetcher.rate_limit_rps must not be negative")
	}
	return nil
}
