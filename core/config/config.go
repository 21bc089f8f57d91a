package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"meetly/core/constants"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	BaseURL  string `mapstructure:"base_url"`
	LogLevel string `mapstructure:"log_level"`
	Pretty   bool   `mapstructure:"pretty_logs"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
}

type BookingConfig struct {
	MaxRangeDays     int `mapstructure:"max_range_days"`
	MinNoticeMinutes int `mapstructure:"min_notice_minutes"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	GoogleAPI GoogleAPIConfig `mapstructure:"google_api"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Booking   BookingConfig   `mapstructure:"booking"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads config.yaml (if present) with environment overrides, e.g.
// MEETLY_DATABASE_PASSWORD maps to database.password.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MEETLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	mu.Lock()
	instance = &cfg
	mu.Unlock()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.pretty_logs", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "meetly")
	v.SetDefault("database.ssl_mode", constants.DatabaseSSLMode)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("booking.max_range_days", constants.MaxSlotRangeDays)
	v.SetDefault("booking.min_notice_minutes", constants.DefaultMinNoticeMinutes)
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Set replaces the loaded config, used by tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// GetSafe returns the config and whether Load has run.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
