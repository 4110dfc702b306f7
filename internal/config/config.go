// Package config loads locker settings from config.yaml, a .env file and
// LOCKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LOCKER"

// Config holds all application configuration
type Config struct {
	Kakao      KakaoConfig      `mapstructure:"kakao"`
	Locker     LockerConfig     `mapstructure:"locker"`
	Controller ControllerConfig `mapstructure:"controller"`
	Player     PlayerConfig     `mapstructure:"player"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// KakaoConfig holds search API configuration
type KakaoConfig struct {
	APIKey    string        `mapstructure:"api_key"`    // REST API key, sent as "KakaoAK <key>"
	BaseURL   string        `mapstructure:"base_url"`
	PageSize  int           `mapstructure:"page_size"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LockerConfig selects where saved thumbnails live
type LockerConfig struct {
	Backend       string `mapstructure:"backend"` // bolt, sqlite, redis or memory
	Path          string `mapstructure:"path"`    // data directory for bolt and sqlite
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// ControllerConfig tunes the thumbnail controller
type ControllerConfig struct {
	OperationTimeout time.Duration `mapstructure:"operation_timeout"` // 0 disables
	Optimistic       bool          `mapstructure:"optimistic"`
	SurfaceFailures  []string      `mapstructure:"surface_failures"` // search, load_all, save, delete
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Kakao: KakaoConfig{
			BaseURL:   "https://dapi.kakao.com",
			PageSize:  30,
			RateLimit: 5,
			Timeout:   10 * time.Second,
		},
		Locker: LockerConfig{
			Backend:   "bolt",
			Path:      defaultDataPath(),
			RedisAddr: "localhost:6379",
		},
		Controller: ControllerConfig{
			OperationTimeout: 30 * time.Second,
			SurfaceFailures:  []string{"search"},
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "locker", "locker.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "locker", "locker.log")
	}
}

// defaultDataPath returns the default locker directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "locker", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "locker", "data")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "locker")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "locker")
	}
}

// DefaultConfigFile returns the path Save writes to when none is given
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// newViper returns an instance that knows every key, so env overrides apply
// even when the config file omits them
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range flatten(defaults) {
		v.SetDefault(key, value)
	}
	return v
}

func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"kakao.api_key":                cfg.Kakao.APIKey,
		"kakao.base_url":               cfg.Kakao.BaseURL,
		"kakao.page_size":              cfg.Kakao.PageSize,
		"kakao.rate_limit":             cfg.Kakao.RateLimit,
		"kakao.timeout":                cfg.Kakao.Timeout.String(),
		"locker.backend":               cfg.Locker.Backend,
		"locker.path":                  cfg.Locker.Path,
		"locker.redis_addr":            cfg.Locker.RedisAddr,
		"locker.redis_password":        cfg.Locker.RedisPassword,
		"locker.redis_db":              cfg.Locker.RedisDB,
		"controller.operation_timeout": cfg.Controller.OperationTimeout.String(),
		"controller.optimistic":        cfg.Controller.Optimistic,
		"controller.surface_failures":  cfg.Controller.SurfaceFailures,
		"player.command":               cfg.Player.Command,
		"player.args":                  cfg.Player.Args,
		"logging.file":                 cfg.Logging.File,
		"logging.level":                cfg.Logging.Level,
	}
}

// Load reads configuration. An empty path searches the default config
// directory and the working directory for config.yaml. A .env file in the
// working directory is applied first without overriding the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := newViper(DefaultConfig())
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML. An empty path writes DefaultConfigFile.
// The file is readable by the owner only since it holds the API key.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range flatten(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(path, 0600)
}

// IsConfigured returns true once an API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.Kakao.APIKey) != ""
}
