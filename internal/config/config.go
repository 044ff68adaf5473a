package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Storage  StorageConfig
	Log      LogConfig
	Dev      DevConfig
	Host     HostConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AppConfig holds the launch props and URL mapping settings.
type AppConfig struct {
	URL          string `mapstructure:"url"`
	DefaultURL   string `mapstructure:"default_url"`
	Location     string `mapstructure:"location"`
	ServerDomain string `mapstructure:"server_domain"`
}

// StorageConfig controls the startup storage gate.
type StorageConfig struct {
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
	Path   string
}

// DevConfig holds development-only switches.
type DevConfig struct {
	Inspect bool
}

// HostConfig holds embedder integration settings.
type HostConfig struct {
	PropsFile string `mapstructure:"props_file"`
}

// MetricsConfig holds the Prometheus listener settings. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "appshell")
}

// Load reads configuration from file and env. Env var overrides use prefix APPSHELL_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "state.db"))
	v.SetDefault("app.url", "")
	v.SetDefault("app.default_url", "")
	v.SetDefault("app.location", "")
	v.SetDefault("app.server_domain", "")
	v.SetDefault("storage.ready_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.path", filepath.Join(dataDir(), "appshell.log"))
	v.SetDefault("dev.inspect", false)
	v.SetDefault("host.props_file", "")
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("APPSHELL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "appshell"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("APPSHELL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("APPSHELL_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "appshell", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("app.url", cfg.App.URL)
	v.Set("app.default_url", cfg.App.DefaultURL)
	v.Set("app.location", cfg.App.Location)
	v.Set("app.server_domain", cfg.App.ServerDomain)
	v.Set("storage.ready_timeout", cfg.Storage.ReadyTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)
	v.Set("dev.inspect", cfg.Dev.Inspect)
	v.Set("host.props_file", cfg.Host.PropsFile)
	v.Set("metrics.addr", cfg.Metrics.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
