package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Delivery DeliveryConfig `yaml:"delivery"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Enabled selects the Redis geocode cache; when false an in-process
	// cache is used instead.
	Enabled bool `yaml:"enabled"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type DeliveryConfig struct {
	StoreLat         float64 `yaml:"store_lat"`
	StoreLng         float64 `yaml:"store_lng"`
	BaseFee          float64 `yaml:"base_fee"`
	BaseKm           float64 `yaml:"base_km"`
	PerKmBeyond      float64 `yaml:"per_km_beyond"`
	ViaCEPBaseURL    string  `yaml:"viacep_base_url"`
	NominatimBaseURL string  `yaml:"nominatim_base_url"`
	UserAgent        string  `yaml:"user_agent"`
	LookupTimeoutSec int     `yaml:"lookup_timeout_seconds"`
	CacheTTLHours    int     `yaml:"cache_ttl_hours"`
}

func (d DeliveryConfig) LookupTimeout() time.Duration {
	if d.LookupTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.LookupTimeoutSec) * time.Second
}

func (d DeliveryConfig) CacheTTL() time.Duration {
	if d.CacheTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(d.CacheTTLHours) * time.Hour
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load() // load .env if it exists

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv lets deployment credentials override the file without editing it.
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_HOST"); v != "" {
		c.RabbitMQ.Host = v
	}
	if v := os.Getenv("RABBITMQ_USER"); v != "" {
		c.RabbitMQ.User = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		c.RabbitMQ.Password = v
	}
}
