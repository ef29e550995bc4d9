package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Backtest Backtest `mapstructure:"backtest"`
	Stats    Stats    `mapstructure:"stats"`
	Database Database `mapstructure:"database"`
	Server   Server   `mapstructure:"server"`
	Export   Export   `mapstructure:"export"`
	Logging  Logging  `mapstructure:"logging"`
}

// Backtest holds the simulation inputs.
type Backtest struct {
	DataFile       string  `mapstructure:"data_file"`
	Symbol         string  `mapstructure:"symbol"`
	InitialBalance float64 `mapstructure:"initial_balance"`
	FastPeriod     int     `mapstructure:"fast_period"`
	SlowPeriod     int     `mapstructure:"slow_period"`
	Size           float64 `mapstructure:"size"`
	AllowShort     bool    `mapstructure:"allow_short"`
	MAType         string  `mapstructure:"ma_type"` // sma or ema
}

// Stats holds the statistics engine settings.
type Stats struct {
	DurationUnit time.Duration `mapstructure:"duration_unit"`
}

// Database holds the configuration for the run store.
type Database struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Server holds the configuration for the presenter HTTP server.
type Server struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Export holds the report outputs to write after a run.
type Export struct {
	Dir   string `mapstructure:"dir"`
	Excel bool   `mapstructure:"excel"`
	CSV   bool   `mapstructure:"csv"`
	Pine  bool   `mapstructure:"pine"`
}

// Logging holds the debug topics to enable, e.g. "stats,series".
type Logging struct {
	Topics string `mapstructure:"topics"`
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default so AutomaticEnv can override it without a file
	v.SetDefault("backtest.data_file", "")
	v.SetDefault("backtest.symbol", "UNKNOWN")
	v.SetDefault("backtest.initial_balance", 10000.0)
	v.SetDefault("backtest.fast_period", 10)
	v.SetDefault("backtest.slow_period", 20)
	v.SetDefault("backtest.size", 1.0)
	v.SetDefault("backtest.allow_short", true)
	v.SetDefault("backtest.ma_type", "sma")
	v.SetDefault("stats.duration_unit", "24h")
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.dsn", "tradestats.db")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("export.dir", "out")
	v.SetDefault("export.excel", true)
	v.SetDefault("export.csv", true)
	v.SetDefault("export.pine", false)
	v.SetDefault("logging.topics", "")
}

// LoadConfig reads config.yml from path, then applies environment overrides
// such as BACKTEST_DATA_FILE. A missing config file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Backtest.InitialBalance <= 0 {
		errs = append(errs, fmt.Errorf("backtest.initial_balance must be positive, got %v", c.Backtest.InitialBalance))
	}
	if c.Backtest.FastPeriod <= 0 || c.Backtest.SlowPeriod <= 0 {
		errs = append(errs, fmt.Errorf("backtest periods must be positive, got %d/%d", c.Backtest.FastPeriod, c.Backtest.SlowPeriod))
	}
	if c.Backtest.FastPeriod >= c.Backtest.SlowPeriod {
		errs = append(errs, fmt.Errorf("backtest.fast_period (%d) must be below backtest.slow_period (%d)", c.Backtest.FastPeriod, c.Backtest.SlowPeriod))
	}
	if c.Backtest.MAType != "sma" && c.Backtest.MAType != "ema" {
		errs = append(errs, fmt.Errorf("backtest.ma_type must be sma or ema, got %q", c.Backtest.MAType))
	}
	if c.Backtest.Size <= 0 {
		errs = append(errs, fmt.Errorf("backtest.size must be positive, got %v", c.Backtest.Size))
	}
	if c.Stats.DurationUnit < 0 {
		errs = append(errs, fmt.Errorf("stats.duration_unit must not be negative, got %s", c.Stats.DurationUnit))
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}
