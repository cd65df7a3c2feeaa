package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string        `mapstructure:"driver"` // sqlite | postgres
	Path         string        `mapstructure:"path"`
	DSN          string        `mapstructure:"dsn"`
	LogMode      bool          `mapstructure:"log_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost       int    `mapstructure:"bcrypt_cost"`
	EncryptionKey    string `mapstructure:"encryption_key"`
	MaxLoginAttempts int    `mapstructure:"max_login_attempts"`
	LockMinutes      int    `mapstructure:"lock_minutes"`
	SecureCookies    bool   `mapstructure:"secure_cookies"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type AppSubConfig struct {
	Timezone     string `mapstructure:"timezone"`
	HistoryLimit int    `mapstructure:"history_limit"`
	RecentLimit  int    `mapstructure:"recent_limit"`
	SearchLimit  int    `mapstructure:"search_limit"`
	SeedOnStart  bool   `mapstructure:"seed_on_start"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (a AppSubConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/food-tracker.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_lifetime", time.Hour)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "food-tracker")
	v.SetDefault("jwt.expire_hours", 24*14)

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.max_login_attempts", 5)
	v.SetDefault("security.lock_minutes", 10)
	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.secure_cookies", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("backup.dir", "data/backups")

	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.history_limit", 50)
	v.SetDefault("app.recent_limit", 5)
	v.SetDefault("app.search_limit", 10)
	v.SetDefault("app.seed_on_start", false)
}

// Read parses the configuration at path without caching it. A missing file
// is not an error: defaults and NT_* environment variables still apply.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. NT_SERVER_PORT=9000
	v.SetEnvPrefix("NT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("config: database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("config: database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = Read(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
