package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"ge-lookup/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Prober    ProberConfig    `mapstructure:"prober"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Search    SearchConfig    `mapstructure:"search"`
	Server    ServerConfig    `mapstructure:"server"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// EndpointConfig covers one provider endpoint.
type EndpointConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ProvidersConfig captures connectivity for the three data sources.
type ProvidersConfig struct {
	Mapping    EndpointConfig `mapstructure:"mapping"`
	Prices     EndpointConfig `mapstructure:"prices"`
	Attributes EndpointConfig `mapstructure:"attributes"`
	UserAgent  string         `mapstructure:"user_agent"`
}

// ProberConfig governs the background liveness checks.
type ProberConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// RefreshConfig governs periodic snapshot reloads.
type RefreshConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// SearchConfig tunes the matcher limits.
type SearchConfig struct {
	MaxResults int `mapstructure:"max_results"`
	ScanCap    int `mapstructure:"scan_cap"`
}

// ServerConfig covers the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AlertingConfig defines source-outage notification routing.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Cooldown time.Duration  `mapstructure:"cooldown"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram notification channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	TopN int `mapstructure:"top_n"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GELOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ge-lookup")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("providers.mapping.base_url", "https://prices.runescape.wiki/api/v1/osrs")
	v.SetDefault("providers.mapping.request_timeout", "10s")
	v.SetDefault("providers.prices.base_url", "https://prices.runescape.wiki/api/v1/osrs")
	v.SetDefault("providers.prices.request_timeout", "10s")
	v.SetDefault("providers.attributes.base_url", "https://static.ge-lookup.dev/api/v1")
	v.SetDefault("providers.attributes.request_timeout", "15s")
	v.SetDefault("providers.user_agent", "ge-lookup/1.0")

	v.SetDefault("prober.interval", "60s")
	v.SetDefault("prober.probe_timeout", "10s")

	v.SetDefault("refresh.enabled", false)
	v.SetDefault("refresh.interval", "5m")

	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.scan_cap", 50)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.cooldown", "10m")
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.top_n", 25)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Providers.Mapping.BaseURL == "" {
		return fmt.Errorf("providers.mapping.base_url is required")
	}
	if c.Providers.Prices.BaseURL == "" {
		return fmt.Errorf("providers.prices.base_url is required")
	}
	if c.Providers.Attributes.BaseURL == "" {
		return fmt.Errorf("providers.attributes.base_url is required")
	}
	if c.Prober.Interval <= 0 {
		return fmt.Errorf("prober.interval must be greater than zero")
	}
	if c.Refresh.Enabled && c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be greater than zero when refresh is enabled")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be greater than zero")
	}
	if c.Search.ScanCap < c.Search.MaxResults {
		return fmt.Errorf("search.scan_cap must be at least search.max_results")
	}
	if c.Export.TopN <= 0 {
		return fmt.Errorf("export.top_n must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required")
		}
	}
	return nil
}
