package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every runtime setting of the server. Values come from an optional
// TOML file (CONFIG_FILE) and are then overridden by environment variables.
type Config struct {
	Port            int           `toml:"port"`
	DatabaseURL     string        `toml:"database_url"`
	RunMigrations   bool          `toml:"run_migrations"`
	ShutdownTimeout time.Duration `toml:"-"`
	ReadRetries     int           `toml:"read_retry_attempts"`

	Auth    AuthConfig    `toml:"auth"`
	CORS    CORSConfig    `toml:"cors"`
	Redis   RedisConfig   `toml:"redis"`
	Reports ReportsConfig `toml:"reports"`
	Minio   MinioConfig   `toml:"minio"`
	Kafka   KafkaConfig   `toml:"kafka"`
	Jobs    JobsConfig    `toml:"jobs"`
}

// AuthConfig describes the external identity provider
type AuthConfig struct {
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
	JWKSURL   string `toml:"jwks_url"`
	JWTSecret string `toml:"jwt_secret"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ReportsConfig struct {
	CacheTTL time.Duration  `toml:"-"`
	TimeZone string         `toml:"timezone"`
	Location *time.Location `toml:"-"`
}

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// Enabled reports whether journal exports can be stored
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// Enabled reports whether sale events are published
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type JobsConfig struct {
	LowStockThreshold int `toml:"low_stock_threshold"`
}

func defaults() *Config {
	return &Config{
		Port:            8080,
		RunMigrations:   true,
		ShutdownTimeout: 10 * time.Second,
		ReadRetries:     3,
		CORS:            CORSConfig{AllowedOrigins: []string{"*"}},
		Redis:           RedisConfig{Addr: "localhost:6379"},
		Reports:         ReportsConfig{CacheTTL: 5 * time.Minute, TimeZone: "America/Santiago"},
		Minio:           MinioConfig{Bucket: "todostock-exports"},
		Kafka:           KafkaConfig{Topic: "todostock.sales"},
		Jobs:            JobsConfig{LowStockThreshold: 5},
	}
}

// Load builds the configuration. DATABASE_URL is required.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	if cfg.RunMigrations, err = getEnvBool("RUN_MIGRATIONS", cfg.RunMigrations); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.ReadRetries, err = getEnvInt("READ_RETRY_ATTEMPTS", cfg.ReadRetries); err != nil {
		return nil, err
	}

	cfg.Auth.URL = strings.TrimRight(getEnv("AUTH_URL", cfg.Auth.URL), "/")
	cfg.Auth.APIKey = getEnv("AUTH_API_KEY", cfg.Auth.APIKey)
	cfg.Auth.JWKSURL = getEnv("AUTH_JWKS_URL", cfg.Auth.JWKSURL)
	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return nil, err
	}

	if cfg.Reports.CacheTTL, err = getEnvDuration("REPORT_CACHE_TTL", cfg.Reports.CacheTTL); err != nil {
		return nil, err
	}
	cfg.Reports.TimeZone = getEnv("REPORT_TIMEZONE", cfg.Reports.TimeZone)
	cfg.Reports.Location = loadLocation(cfg.Reports.TimeZone)

	cfg.Minio.Endpoint = getEnv("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", cfg.Minio.SecretKey)
	if cfg.Minio.UseSSL, err = getEnvBool("MINIO_USE_SSL", cfg.Minio.UseSSL); err != nil {
		return nil, err
	}
	cfg.Minio.Bucket = getEnv("MINIO_BUCKET", cfg.Minio.Bucket)

	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)

	if cfg.Jobs.LowStockThreshold, err = getEnvInt("LOW_STOCK_THRESHOLD", cfg.Jobs.LowStockThreshold); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadRetries < 1 {
		return fmt.Errorf("READ_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARN: unknown report time zone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
