package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Lock     LockConfig
	Redis    RedisConfig
	Queue    QueueConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// SeatingConfigPath points at the JSON document with seat statuses,
	// symbols and plan limits.
	SeatingConfigPath string
}

type StorageConfig struct {
	Driver  string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type LockConfig struct {
	Backend string
	TTL     time.Duration
	Wait    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QueueConfig struct {
	URL string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// LoadConfig reads envFile when present and lets environment variables
// override it.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "cinema-seating")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SEATING_CONFIG_PATH", "app_configuration.json")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PERSISTENCE_TIMEOUT", "5s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("LOCK_BACKEND", LockBackendLocal)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("LOCK_WAIT", "5s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:              v.GetString("APP_NAME"),
			Port:              v.GetString("PORT"),
			Debug:             v.GetBool("DEBUG"),
			LogPath:           v.GetString("LOG_PATH"),
			SeatingConfigPath: v.GetString("SEATING_CONFIG_PATH"),
		},
		Storage: StorageConfig{
			Driver:  v.GetString("STORAGE_DRIVER"),
			Timeout: v.GetDuration("PERSISTENCE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Lock: LockConfig{
			Backend: v.GetString("LOCK_BACKEND"),
			TTL:     v.GetDuration("LOCK_TTL"),
			Wait:    v.GetDuration("LOCK_WAIT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Queue: QueueConfig{
			URL: v.GetString("AMQP_URL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return errors.New("STORAGE_DRIVER must be postgres or memory")
	}
	switch c.Lock.Backend {
	case LockBackendLocal, LockBackendRedis:
	default:
		return errors.New("LOCK_BACKEND must be local or redis")
	}
	if c.Storage.Timeout <= 0 {
		return errors.New("PERSISTENCE_TIMEOUT must be positive")
	}
	return nil
}
