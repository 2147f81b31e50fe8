// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/stsysd/niwa/schedule"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "NIWA"

// FrostConfig は霜日参照サービスの設定です。
type FrostConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ZipBaseURL     string        `mapstructure:"zip_base_url"`
	ClimateBaseURL string        `mapstructure:"climate_base_url"`
	HistoryYears   int           `mapstructure:"history_years"`
	RPS            float64       `mapstructure:"rps"`
	Burst          int           `mapstructure:"burst"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// Config はアプリケーション全体の設定を保持します。
// 値は .niwa.yaml、NIWA_* 環境変数、CLIフラグの順に上書きされます。
type Config struct {
	// データディレクトリのパス
	DataDir string `mapstructure:"data_dir"`

	// HTTPサーバーのポート
	Port string `mapstructure:"port"`

	// API認証キー
	APIKey string `mapstructure:"api_key"`

	// カタログファイルのパス。空の場合は組み込みカタログを使用
	CatalogPath string `mapstructure:"catalog_path"`

	// 霜日が不明な場合に使う既定値
	DefaultFrostDay int `mapstructure:"default_frost_day"`

	// カタログファイルの変更を監視するか
	WatchCatalog bool `mapstructure:"watch_catalog"`

	Verbose bool `mapstructure:"verbose"`

	Frost FrostConfig `mapstructure:"frost"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", filepath.Join(".", "data"))
	v.SetDefault("port", "8080")
	v.SetDefault("api_key", "")
	v.SetDefault("catalog_path", "")
	v.SetDefault("default_frost_day", schedule.DefaultFrostDay)
	v.SetDefault("watch_catalog", true)
	v.SetDefault("verbose", false)
	v.SetDefault("frost.enabled", true)
	v.SetDefault("frost.zip_base_url", "https://api.zippopotam.us")
	v.SetDefault("frost.climate_base_url", "https://archive-api.open-meteo.com")
	v.SetDefault("frost.history_years", 10)
	v.SetDefault("frost.rps", 1.0)
	v.SetDefault("frost.burst", 2)
	v.SetDefault("frost.cache_ttl", 24*time.Hour)
}

// BindEnv makes v read NIWA_* variables, with nested keys joined by "_"
// (frost.cache_ttl is NIWA_FROST_CACHE_TTL).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.DefaultFrostDay < 1 || c.DefaultFrostDay > 365 {
		return fmt.Errorf("default_frost_day must be between 1 and 365, got %d", c.DefaultFrostDay)
	}
	if c.Frost.Enabled {
		if c.Frost.HistoryYears < 1 {
			return fmt.Errorf("frost.history_years must be at least 1, got %d", c.Frost.HistoryYears)
		}
		if c.Frost.RPS <= 0 || c.Frost.Burst < 1 {
			return errors.New("frost.rps and frost.burst must be positive")
		}
	}
	return nil
}

// RequireAPIKey returns an error when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is not set", EnvPrefix)
	}
	return nil
}
